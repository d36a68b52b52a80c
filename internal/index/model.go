// Package index holds the term-frequency data model and the corpus indexer
// that builds it from a directory tree.
package index

import (
	"sort"

	"github.com/lexidx/lexidx/internal/lexer"
)

// TermFrequency maps a canonical token to the number of times it occurs in
// one document. Every stored count is positive.
type TermFrequency map[string]int

// TermFrequencyIndex maps a document path to its TermFrequency. A path
// appears at most once; reinserting a path replaces its profile.
type TermFrequencyIndex map[string]TermFrequency

// TermCount is a term paired with an aggregate count.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// CountTerms tokenizes content and counts the canonical form of every token
// in a single pass.
func CountTerms(content []rune) TermFrequency {
	tf := make(TermFrequency)
	lx := lexer.New(content)
	for {
		term, ok := lx.NextTerm()
		if !ok {
			return tf
		}
		tf[term]++
	}
}

// Total returns the number of tokens the profile was built from.
func (tf TermFrequency) Total() int {
	n := 0
	for _, c := range tf {
		n += c
	}
	return n
}

// Insert stores tf under path, replacing any previous profile.
func (idx TermFrequencyIndex) Insert(path string, tf TermFrequency) {
	idx[path] = tf
}

// Merge copies every entry of other into idx. Paths present in both take
// the profile from other.
func (idx TermFrequencyIndex) Merge(other TermFrequencyIndex) {
	for path, tf := range other {
		idx[path] = tf
	}
}

// Len returns the number of documents.
func (idx TermFrequencyIndex) Len() int {
	return len(idx)
}

// Paths returns the document paths in lexical order.
func (idx TermFrequencyIndex) Paths() []string {
	paths := make([]string, 0, len(idx))
	for path := range idx {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Terms returns the number of distinct terms across all documents.
func (idx TermFrequencyIndex) Terms() int {
	seen := make(map[string]struct{})
	for _, tf := range idx {
		for term := range tf {
			seen[term] = struct{}{}
		}
	}
	return len(seen)
}

// TopTerms sums counts across all documents and returns the n most frequent
// terms, highest first. Ties are ordered by term. n <= 0 returns every term.
func (idx TermFrequencyIndex) TopTerms(n int) []TermCount {
	totals := make(map[string]int)
	for _, tf := range idx {
		for term, c := range tf {
			totals[term] += c
		}
	}

	out := make([]TermCount, 0, len(totals))
	for term, c := range totals {
		out = append(out, TermCount{Term: term, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term < out[j].Term
	})

	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
