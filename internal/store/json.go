package store

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"unicode/utf8"

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/index"
)

// JSON stores the index as one JSON object mapping each document path to
// an object of term counts:
//
//	{"/docs/a.xml":{"HELLO":1,"WORLD":2}}
type JSON struct{}

// NewJSON returns the JSON store.
func NewJSON() *JSON {
	return &JSON{}
}

var _ Store = (*JSON)(nil)

// Save implements Store. The file is truncated and rewritten in place.
// Keys that are not valid UTF-8 are rejected before the file is touched.
func (s *JSON) Save(idx index.TermFrequencyIndex, path string) error {
	if err := checkKeys(idx); err != nil {
		return errors.IOError(path, err)
	}

	l := newFileLock(path)
	if err := l.lock(); err != nil {
		return err
	}
	defer l.unlock()

	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(path, err)
	}

	w := bufio.NewWriter(f)
	if err := Encode(w, idx); err != nil {
		_ = f.Close()
		return errors.IOError(path, err)
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return errors.IOError(path, err)
	}
	if err := f.Close(); err != nil {
		return errors.IOError(path, err)
	}
	return nil
}

// Load implements Store.
func (s *JSON) Load(path string) (index.TermFrequencyIndex, error) {
	l := newFileLock(path)
	if _, err := os.Stat(path); err != nil {
		return nil, errors.IOError(path, err)
	}
	if err := l.rlock(); err != nil {
		return nil, err
	}
	defer l.unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.IOError(path, err)
	}

	idx, err := Decode(data)
	if err != nil {
		return nil, errors.CorruptIndexError(path, err.Error(), err)
	}
	return idx, nil
}

// Encode writes idx as compact JSON. Keys are emitted in sorted order.
// encoding/json would replace invalid UTF-8 in keys with U+FFFD, merging
// distinct paths, so such keys are an error.
func Encode(w io.Writer, idx index.TermFrequencyIndex) error {
	if idx == nil {
		idx = index.TermFrequencyIndex{}
	}
	if err := checkKeys(idx); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(idx)
}

func checkKeys(idx index.TermFrequencyIndex) error {
	for path, tf := range idx {
		if !utf8.ValidString(path) {
			return fmt.Errorf("document path %q is not valid UTF-8", path)
		}
		for term := range tf {
			if !utf8.ValidString(term) {
				return fmt.Errorf("document %q: term %q is not valid UTF-8", path, term)
			}
		}
	}
	return nil
}

// Decode parses data strictly. The top level and every document value must
// be objects, every count a non-negative integer, and no object may repeat
// a key.
func Decode(data []byte) (index.TermFrequencyIndex, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty input, expected an object")
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("expected an object, found %s", describe(trimmed))
	}
	if !utf8.Valid(trimmed) {
		return nil, fmt.Errorf("input is not valid UTF-8")
	}

	d := &objectDecoder{data: trimmed, dec: json.NewDecoder(bytes.NewReader(trimmed))}
	d.dec.UseNumber()

	idx := index.TermFrequencyIndex{}
	err := d.object(func(path string) error {
		if _, dup := idx[path]; dup {
			return fmt.Errorf("duplicate document %q", path)
		}
		tf, err := d.terms(path)
		if err != nil {
			return err
		}
		idx[path] = tf
		return nil
	})
	if err != nil {
		return nil, err
	}
	if _, err := d.dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after the top-level object at offset %d", d.dec.InputOffset())
	}
	return idx, nil
}

type objectDecoder struct {
	data []byte
	dec  *json.Decoder
}

func (d *objectDecoder) terms(path string) (index.TermFrequency, error) {
	tf := index.TermFrequency{}
	err := d.object(func(term string) error {
		if _, dup := tf[term]; dup {
			return fmt.Errorf("document %q: duplicate term %q", path, term)
		}
		tok, err := d.token()
		if err != nil {
			return fmt.Errorf("document %q: %w", path, err)
		}
		num, ok := tok.(json.Number)
		if !ok {
			return fmt.Errorf("document %q: term %q: count %s is not a non-negative integer",
				path, term, describeToken(tok))
		}
		n, err := strconv.ParseUint(num.String(), 10, 63)
		if err != nil {
			return fmt.Errorf("document %q: term %q: count %s is not a non-negative integer",
				path, term, num)
		}
		tf[term] = int(n)
		return nil
	})
	if err != nil {
		var notObject notObjectError
		if stderrors.As(err, &notObject) {
			return nil, fmt.Errorf("document %q: %w", path, err)
		}
		return nil, err
	}
	return tf, nil
}

// object consumes one JSON object, calling member after each key so it can
// consume the value.
func (d *objectDecoder) object(member func(key string) error) error {
	tok, err := d.token()
	if err != nil {
		return err
	}
	if tok != json.Delim('{') {
		return notObjectError{found: describeToken(tok)}
	}

	for d.dec.More() {
		tok, err := d.token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected an object key, found %s", describeToken(tok))
		}
		if err := member(key); err != nil {
			return err
		}
	}

	tok, err = d.token()
	if err != nil {
		return err
	}
	if tok != json.Delim('}') {
		return fmt.Errorf("expected end of object, found %s", describeToken(tok))
	}
	return nil
}

func (d *objectDecoder) token() (json.Token, error) {
	tok, err := d.dec.Token()
	switch {
	case err == io.EOF:
		return nil, fmt.Errorf("unexpected end of input at offset %d", d.dec.InputOffset())
	case err != nil:
		return nil, describeDecodeError(d.data, err)
	}
	return tok, nil
}

type notObjectError struct {
	found string
}

func (e notObjectError) Error() string {
	return "expected an object, found " + e.found
}

func describeToken(tok json.Token) string {
	switch t := tok.(type) {
	case nil:
		return "null"
	case json.Delim:
		switch t {
		case '[':
			return "an array"
		case '{':
			return "an object"
		}
		return string(t)
	case string:
		return "a string"
	case json.Number:
		return t.String()
	default:
		return "a scalar"
	}
}

func describe(b []byte) string {
	switch {
	case bytes.HasPrefix(b, []byte("null")):
		return "null"
	case b[0] == '[':
		return "an array"
	case b[0] == '"':
		return "a string"
	default:
		return "a scalar"
	}
}

func describeDecodeError(data []byte, err error) error {
	var syn *json.SyntaxError
	if stderrors.As(err, &syn) {
		line, col := lineCol(data, syn.Offset)
		return fmt.Errorf("invalid JSON at line %d, column %d: %w", line, col, err)
	}
	return err
}

func lineCol(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
