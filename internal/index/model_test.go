package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountTerms(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect TermFrequency
	}{
		{
			name:   "case folds to one term",
			input:  "Go go GO",
			expect: TermFrequency{"GO": 3},
		},
		{
			name:   "classes are counted separately",
			input:  "abc123XYZ abc",
			expect: TermFrequency{"ABC": 2, "123": 1, "XYZ": 1},
		},
		{
			name:   "punctuation is a term",
			input:  "a, b, c",
			expect: TermFrequency{"A": 1, "B": 1, "C": 1, ",": 2},
		},
		{
			name:   "empty content",
			input:  "",
			expect: TermFrequency{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, CountTerms([]rune(tt.input)))
		})
	}
}

func TestCountTerms_CountsArePositive(t *testing.T) {
	tf := CountTerms([]rune("the quick brown fox jumps over the lazy dog 42 times!"))

	for term, c := range tf {
		assert.Greater(t, c, 0, "term %q", term)
	}
	assert.Equal(t, 12, tf.Total())
}

func TestTermFrequencyIndex_InsertOverwrites(t *testing.T) {
	// Given: an index with one document
	idx := TermFrequencyIndex{}
	idx.Insert("/docs/a.xml", TermFrequency{"OLD": 1})

	// When: the same path is inserted again
	idx.Insert("/docs/a.xml", TermFrequency{"NEW": 2})

	// Then: the second profile replaces the first without merging
	assert.Equal(t, 1, idx.Len())
	assert.Equal(t, TermFrequency{"NEW": 2}, idx["/docs/a.xml"])
}

func TestTermFrequencyIndex_Merge(t *testing.T) {
	idx := TermFrequencyIndex{
		"/a": {"X": 1},
		"/b": {"Y": 1},
	}
	idx.Merge(TermFrequencyIndex{
		"/b": {"Z": 5},
		"/c": {"W": 2},
	})

	assert.Equal(t, TermFrequencyIndex{
		"/a": {"X": 1},
		"/b": {"Z": 5},
		"/c": {"W": 2},
	}, idx)
}

func TestTermFrequencyIndex_Paths(t *testing.T) {
	idx := TermFrequencyIndex{"/z": {}, "/a": {}, "/m/n": {}}

	assert.Equal(t, []string{"/a", "/m/n", "/z"}, idx.Paths())
	assert.Empty(t, TermFrequencyIndex{}.Paths())
}

func TestTermFrequencyIndex_Terms(t *testing.T) {
	idx := TermFrequencyIndex{
		"/a": {"X": 1, "Y": 2},
		"/b": {"Y": 1, "Z": 1},
	}

	assert.Equal(t, 3, idx.Terms())
}

func TestTermFrequencyIndex_TopTerms(t *testing.T) {
	idx := TermFrequencyIndex{
		"/a": {"GO": 3, "XML": 1, "B": 1},
		"/b": {"GO": 1, "XML": 2, "A": 1},
	}

	t.Run("sums across documents", func(t *testing.T) {
		assert.Equal(t, []TermCount{
			{Term: "GO", Count: 4},
			{Term: "XML", Count: 3},
		}, idx.TopTerms(2))
	})

	t.Run("ties ordered by term", func(t *testing.T) {
		top := idx.TopTerms(0)
		assert.Len(t, top, 4)
		assert.Equal(t, TermCount{Term: "A", Count: 1}, top[2])
		assert.Equal(t, TermCount{Term: "B", Count: 1}, top[3])
	})

	t.Run("n larger than vocabulary", func(t *testing.T) {
		assert.Len(t, idx.TopTerms(100), 4)
	})
}
