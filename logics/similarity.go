// Copyright 2026 movierec Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logics

import (
	"math"
	"time"

	"github.com/gorse-io/movierec/base/heap"
	"github.com/gorse-io/movierec/base/log"
	"github.com/gorse-io/movierec/dataset"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// SimilarityMatrix is a square, symmetric cosine similarity matrix.
type SimilarityMatrix struct {
	values *mat.SymDense
}

// NewUserSimilarity computes cosine similarity between every pair of users.
func NewUserSimilarity(m *dataset.UserItemMatrix) *SimilarityMatrix {
	start := time.Now()
	vectors := make([][]float64, m.CountUsers())
	for i := range vectors {
		vectors[i] = m.Row(i)
	}
	sim := newSimilarityMatrix(vectors)
	log.Logger().Info("complete user similarity",
		zap.Int("n_users", len(vectors)),
		zap.Duration("elapsed", time.Since(start)))
	return sim
}

// NewItemSimilarity computes cosine similarity between every pair of titles.
func NewItemSimilarity(m *dataset.UserItemMatrix) *SimilarityMatrix {
	start := time.Now()
	vectors := make([][]float64, m.CountTitles())
	for j := range vectors {
		vectors[j] = m.Col(j)
	}
	sim := newSimilarityMatrix(vectors)
	log.Logger().Info("complete item similarity",
		zap.Int("n_items", len(vectors)),
		zap.Duration("elapsed", time.Since(start)))
	return sim
}

func newSimilarityMatrix(vectors [][]float64) *SimilarityMatrix {
	if len(vectors) == 0 {
		return &SimilarityMatrix{}
	}
	norms := make([]float64, len(vectors))
	for i, v := range vectors {
		norms[i] = floats.Norm(v, 2)
	}
	values := mat.NewSymDense(len(vectors), nil)
	for i := range vectors {
		if norms[i] == 0 {
			continue
		}
		values.SetSym(i, i, 1)
		for j := i + 1; j < len(vectors); j++ {
			values.SetSym(i, j, cosine(vectors[i], vectors[j], norms[i], norms[j]))
		}
	}
	return &SimilarityMatrix{values: values}
}

// cosine returns dot(a, b) / (|a| * |b|), or 0 if either vector is all zeros.
func cosine(a, b []float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, floats.Dot(a, b)/(normA*normB)))
}

// Cosine computes the cosine similarity between two vectors.
func Cosine(a, b []float64) float64 {
	return cosine(a, b, floats.Norm(a, 2), floats.Norm(b, 2))
}

// Count returns the number of rows (and columns).
func (s *SimilarityMatrix) Count() int {
	if s.values == nil {
		return 0
	}
	return s.values.SymmetricDim()
}

func (s *SimilarityMatrix) At(i, j int) float64 {
	return s.values.At(i, j)
}

// Neighbors returns the k entries most similar to i in descending order of
// similarity. Entry i itself is skipped by position, so it never appears
// even if other entries tie with it. Equal similarities keep index order.
func (s *SimilarityMatrix) Neighbors(i, k int) ([]int, []float64) {
	filter := heap.NewTopKFilter[int, float64](k)
	for j := 0; j < s.Count(); j++ {
		if j != i {
			filter.Push(j, s.values.At(i, j))
		}
	}
	elems := filter.PopAll()
	neighbors := make([]int, len(elems))
	scores := make([]float64, len(elems))
	for n, elem := range elems {
		neighbors[n], scores[n] = elem.Value, elem.Weight
	}
	return neighbors, scores
}
