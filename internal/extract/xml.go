package extract

import (
	"bufio"
	"bytes"
	"encoding/xml"
	stderrors "errors"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"

	"github.com/lexidx/lexidx/internal/errors"
)

// XML extracts the character data of an XML document. Each non-blank text
// or CDATA fragment is followed by a single space so words in adjacent
// elements never run together. Markup, comments, processing instructions
// and directives are dropped.
type XML struct{}

// NewXML returns the XML extractor.
func NewXML() *XML {
	return &XML{}
}

// Extract implements Extractor.
func (x *XML) Extract(path string) ([]rune, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(path, err)
	}
	defer func() { _ = f.Close() }()

	text, err := ReadXML(bufio.NewReader(f))
	if err != nil {
		if e, ok := errors.As(err); ok && e.Code == errors.ErrCodeMalformedDocument {
			out := errors.ExtractionError(path, e.Message, e.Cause)
			out.Position = e.Position
			return nil, out
		}
		return nil, errors.IOError(path, err)
	}
	return []rune(text), nil
}

// ReadXML streams r through a strict XML decoder and returns the joined
// character data. The document must have exactly one root element and no
// text outside it. Malformed input yields an *errors.Error with code
// ErrCodeMalformedDocument and the decoder position; read failures from r
// are returned unchanged.
func ReadXML(r io.Reader) (string, error) {
	d := xml.NewDecoder(r)
	d.Strict = true
	d.CharsetReader = charset.NewReaderLabel

	var (
		sb    strings.Builder
		depth int
		roots int
	)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			if roots == 0 {
				return "", structural(d, "no root element")
			}
			return sb.String(), nil
		}
		if err != nil {
			return "", malformed(d, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				roots++
				if roots > 1 {
					return "", structural(d, "unexpected element <"+t.Name.Local+"> after the root element")
				}
			}
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 {
				if !isBlank(bytes.TrimPrefix(t, bom)) {
					return "", structural(d, "character data outside the root element")
				}
				continue
			}
			if isBlank(t) {
				continue
			}
			sb.Write(t)
			sb.WriteByte(' ')
		}
	}
}

var bom = []byte("\uFEFF")

func structural(d *xml.Decoder, msg string) error {
	line, column := d.InputPos()
	return errors.New(errors.ErrCodeMalformedDocument, msg, nil).WithPosition(line, column)
}

func malformed(d *xml.Decoder, err error) error {
	line, column := d.InputPos()

	var syn *xml.SyntaxError
	switch {
	case stderrors.As(err, &syn):
		// SyntaxError only carries the line.
		return errors.New(errors.ErrCodeMalformedDocument, syn.Msg, err).WithPosition(syn.Line, 0)
	case stderrors.Is(err, io.ErrUnexpectedEOF):
		return errors.New(errors.ErrCodeMalformedDocument, "unexpected end of document", err).WithPosition(line, column)
	case strings.HasPrefix(err.Error(), "xml: "):
		// Unsupported encoding declarations.
		return errors.New(errors.ErrCodeMalformedDocument, strings.TrimPrefix(err.Error(), "xml: "), err).WithPosition(line, column)
	default:
		return err
	}
}

func isBlank(data []byte) bool {
	for _, r := range string(data) {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
