// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feature turns ingredient documents into TF-IDF weighted vectors.
// The vector space is shared by the category classifier and the similarity
// engine: it is fit exactly once per training pass, on the training split
// only, and frozen thereafter. Refitting on the full corpus after evaluation
// would leak held-out data.
package feature

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// minTokenLen drops one-character fragments the way the original word
// tokenizer did.
const minTokenLen = 2

// Vectorizer holds a frozen vocabulary with IDF weights. Fields are exported
// so a trained vectorizer survives gob encoding.
type Vectorizer struct {
	// Vocabulary maps a term to its column index.
	Vocabulary map[string]int

	// IDF holds the inverse-document-frequency weight per column.
	IDF []float64

	// MinDocFreq excludes terms seen in fewer training documents. A term
	// with document frequency 1 is corpus noise, not signal.
	MinDocFreq int
}

// NewVectorizer returns an unfit vectorizer with the given minimum document
// frequency (values below 1 mean 1).
func NewVectorizer(minDocFreq int) *Vectorizer {
	if minDocFreq < 1 {
		minDocFreq = 1
	}
	return &Vectorizer{MinDocFreq: minDocFreq}
}

// Fitted reports whether Fit has run.
func (v *Vectorizer) Fitted() bool { return v.Vocabulary != nil }

// Terms returns the vocabulary ordered by column index.
func (v *Vectorizer) Terms() []string {
	terms := make([]string, len(v.Vocabulary))
	for term, col := range v.Vocabulary {
		terms[col] = term
	}
	return terms
}

// Tokenize splits a document into lowercase word tokens of at least two
// characters.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Fit builds the vocabulary and IDF weights from the training documents and
// returns their TF-IDF matrix. Terms below the minimum document frequency
// are excluded entirely. Fit may run only once per instance.
func (v *Vectorizer) Fit(docs []string) ([][]float64, error) {
	if v.Fitted() {
		return nil, fmt.Errorf("vectorizer is already fit; the vocabulary is frozen per training pass")
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no documents to fit")
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	kept := make([]string, 0, len(df))
	for term, n := range df {
		if n >= v.MinDocFreq {
			kept = append(kept, term)
		}
	}
	sort.Strings(kept)

	v.Vocabulary = make(map[string]int, len(kept))
	v.IDF = make([]float64, len(kept))
	n := float64(len(docs))
	for col, term := range kept {
		v.Vocabulary[term] = col
		// Smoothed IDF: ln((1+n)/(1+df)) + 1.
		v.IDF[col] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	return v.Transform(docs), nil
}

// Transform vectorizes documents against the frozen vocabulary. Terms the
// vocabulary does not know contribute zero weight; they never fail the call.
// Rows are L2-normalized, so cosine similarity of two rows is their dot
// product.
func (v *Vectorizer) Transform(docs []string) [][]float64 {
	matrix := make([][]float64, len(docs))
	for i, doc := range docs {
		matrix[i] = v.vectorize(doc)
	}
	return matrix
}

// TransformOne vectorizes a single document.
func (v *Vectorizer) TransformOne(doc string) []float64 {
	return v.vectorize(doc)
}

func (v *Vectorizer) vectorize(doc string) []float64 {
	vec := make([]float64, len(v.IDF))
	for _, tok := range Tokenize(doc) {
		if col, ok := v.Vocabulary[tok]; ok {
			vec[col] += v.IDF[col]
		}
	}
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}
