package index

import (
	"os"
	"path/filepath"
	"time"

	"github.com/lexidx/lexidx/internal/errors"
	"github.com/lexidx/lexidx/internal/extract"
)

// Skipped records a document the indexer could not extract.
type Skipped struct {
	Path string
	Err  error
}

// Report summarizes a completed indexing run.
type Report struct {
	// Indexed is the number of documents added to the index.
	Indexed int

	// Skipped lists documents whose extraction failed, in visit order.
	Skipped []Skipped

	// Duration is the wall time of the run.
	Duration time.Duration
}

// DocumentEvent describes the outcome for one file.
type DocumentEvent struct {
	Path  string
	Terms int   // distinct terms, zero when skipped
	Err   error // non-nil when the document was skipped
}

// Observer receives a callback for every file the indexer visits.
type Observer interface {
	OnDocument(DocumentEvent)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(DocumentEvent)

// OnDocument implements Observer.
func (f ObserverFunc) OnDocument(ev DocumentEvent) { f(ev) }

// Indexer walks a directory tree and builds a TermFrequencyIndex.
// It is single-threaded and holds no state between runs.
type Indexer struct {
	extractor extract.Extractor
	observer  Observer
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithObserver registers an observer for per-document events.
func WithObserver(o Observer) Option {
	return func(ix *Indexer) {
		ix.observer = o
	}
}

// NewIndexer creates an Indexer that reads documents with ex. A nil
// extractor selects the XML extractor.
func NewIndexer(ex extract.Extractor, opts ...Option) *Indexer {
	if ex == nil {
		ex = extract.NewXML()
	}
	ix := &Indexer{extractor: ex}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Index walks root recursively and merges a profile for every extractable
// file into into. Files that fail extraction are listed in the report and
// skipped. A directory that cannot be read or an entry that cannot be
// stat'ed aborts the run with a fatal error; into is then left unchanged.
func (ix *Indexer) Index(root string, into TermFrequencyIndex) (Report, error) {
	start := time.Now()
	var report Report

	abs, err := filepath.Abs(root)
	if err != nil {
		return report, errors.TraversalError(root, err)
	}

	sub, err := ix.walk(abs, &report)
	report.Duration = time.Since(start)
	if err != nil {
		return report, err
	}

	into.Merge(sub)
	return report, nil
}

// walk returns the profiles found under dir. The caller owns the result.
func (ix *Indexer) walk(dir string, report *Report) (TermFrequencyIndex, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.TraversalError(dir, err)
	}

	out := make(TermFrequencyIndex)
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.TraversalError(path, err)
		}

		if info.IsDir() {
			sub, err := ix.walk(path, report)
			if err != nil {
				return nil, err
			}
			out.Merge(sub)
			continue
		}

		content, err := ix.extractor.Extract(path)
		if err != nil {
			report.Skipped = append(report.Skipped, Skipped{Path: path, Err: err})
			ix.notify(DocumentEvent{Path: path, Err: err})
			continue
		}

		tf := CountTerms(content)
		out.Insert(path, tf)
		report.Indexed++
		ix.notify(DocumentEvent{Path: path, Terms: len(tf)})
	}
	return out, nil
}

func (ix *Indexer) notify(ev DocumentEvent) {
	if ix.observer != nil {
		ix.observer.OnDocument(ev)
	}
}
