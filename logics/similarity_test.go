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
	"sort"
	"testing"

	"github.com/gorse-io/movierec/dataset"
	"github.com/stretchr/testify/assert"
)

const epsilon = 1e-9

// newMatrix builds a user-item matrix from user -> title -> rating.
func newMatrix(ratings map[int]map[string]float64) *dataset.UserItemMatrix {
	users := make([]int, 0, len(ratings))
	for userId := range ratings {
		users = append(users, userId)
	}
	sort.Ints(users)
	var records []dataset.Rating
	for _, userId := range users {
		titles := make([]string, 0, len(ratings[userId]))
		for title := range ratings[userId] {
			titles = append(titles, title)
		}
		sort.Strings(titles)
		for _, title := range titles {
			records = append(records, dataset.Rating{UserId: userId, Title: title, Rating: ratings[userId][title]})
		}
	}
	return dataset.NewUserItemMatrix(records)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1/math.Sqrt2, Cosine([]float64{1, 0}, []float64{1, 1}), epsilon)
	assert.InDelta(t, 1, Cosine([]float64{1, 2, 3}, []float64{2, 4, 6}), epsilon)
	assert.Zero(t, Cosine([]float64{1, 0}, []float64{0, 1}))
	// zero vectors never produce NaN
	assert.Zero(t, Cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Zero(t, Cosine([]float64{0, 0}, []float64{0, 0}))
}

func TestSimilarityMatrix(t *testing.T) {
	m := newMatrix(map[int]map[string]float64{
		1: {"W": 0, "X": 5},
		2: {"W": 2, "X": 5, "Y": 4},
		3: {"X": 3, "Z": 5},
		4: {"W": 0},
	})
	for _, sim := range []*SimilarityMatrix{NewUserSimilarity(m), NewItemSimilarity(m)} {
		for i := 0; i < sim.Count(); i++ {
			for j := 0; j < sim.Count(); j++ {
				assert.Equal(t, sim.At(i, j), sim.At(j, i))
				assert.False(t, math.IsNaN(sim.At(i, j)))
				assert.GreaterOrEqual(t, sim.At(i, j), 0.0)
				assert.LessOrEqual(t, sim.At(i, j), 1.0)
			}
		}
	}

	users := NewUserSimilarity(m)
	assert.Equal(t, 4, users.Count())
	assert.Equal(t, 1.0, users.At(0, 0))
	assert.InDelta(t, 25/(5*math.Sqrt(45)), users.At(0, 1), epsilon)
	assert.InDelta(t, 15/(5*math.Sqrt(34)), users.At(0, 2), epsilon)
	// user 4 only has a zero rating
	for j := 0; j < users.Count(); j++ {
		assert.Zero(t, users.At(3, j))
	}

	items := NewItemSimilarity(m)
	assert.Equal(t, 4, items.Count())
	assert.Equal(t, 1.0, items.At(1, 1))
}

func TestSimilarityMatrixEmpty(t *testing.T) {
	m := dataset.NewUserItemMatrix(nil)
	assert.Zero(t, NewUserSimilarity(m).Count())
	assert.Zero(t, NewItemSimilarity(m).Count())
	neighbors, scores := NewUserSimilarity(m).Neighbors(0, 10)
	assert.Empty(t, neighbors)
	assert.Empty(t, scores)
}

func TestNeighbors(t *testing.T) {
	m := newMatrix(map[int]map[string]float64{
		1: {"X": 5, "Y": 4},
		2: {"X": 5, "Y": 4},
		3: {"X": 5, "Y": 4},
		4: {"Z": 1},
	})
	sim := NewUserSimilarity(m)

	// self is excluded by position even though all three tie at 1.0
	neighbors, scores := sim.Neighbors(1, 2)
	assert.Equal(t, []int{0, 2}, neighbors)
	assert.InDelta(t, 1, scores[0], epsilon)
	assert.InDelta(t, 1, scores[1], epsilon)

	neighbors, _ = sim.Neighbors(0, 10)
	assert.Equal(t, []int{1, 2, 3}, neighbors)

	neighbors, scores = sim.Neighbors(3, 1)
	assert.Equal(t, []int{0}, neighbors)
	assert.Equal(t, []float64{0}, scores)

	neighbors, _ = sim.Neighbors(0, 0)
	assert.Empty(t, neighbors)
}
