// Package extract turns documents on disk into decoded text for indexing.
package extract

// Extractor converts the document at path into a sequence of runes.
// Failures are returned as *errors.Error values and are recoverable: the
// caller is expected to skip the document and continue.
type Extractor interface {
	Extract(path string) ([]rune, error)
}

// Func adapts an ordinary function to the Extractor interface.
type Func func(path string) ([]rune, error)

// Extract implements Extractor.
func (f Func) Extract(path string) ([]rune, error) {
	return f(path)
}
