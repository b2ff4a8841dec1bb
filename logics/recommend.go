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
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/movierec/dataset"
	"github.com/juju/errors"
)

const (
	MethodUser = "user"
	MethodItem = "item"
)

const (
	// userLikedThreshold: a neighbor likes a title rated strictly above it.
	userLikedThreshold = 3
	// itemLikedThreshold: the target likes a title rated at or above it.
	itemLikedThreshold = 4
)

type Recommendation struct {
	Title string
	Score float64
}

type Recommender interface {
	// Recommend returns at most k unseen titles for a user, best first.
	Recommend(userId, k int) ([]Recommendation, error)
}

// NewRecommender builds the recommender for a method together with the
// similarity matrix it needs.
func NewRecommender(method string, m *dataset.UserItemMatrix, opts *ItemBasedOptions) (Recommender, error) {
	switch method {
	case MethodUser:
		return NewUserBased(m, NewUserSimilarity(m)), nil
	case MethodItem:
		return NewItemBased(m, NewItemSimilarity(m), opts), nil
	}
	return nil, errors.NotValidf("method %q", method)
}

// accumulator sums scores per column and remembers the order in which
// columns were first seen.
type accumulator struct {
	index  map[int]int
	scores []Recommendation
	cols   []int
}

func newAccumulator() *accumulator {
	return &accumulator{index: make(map[int]int)}
}

func (a *accumulator) add(col int, title string, score float64) {
	if n, ok := a.index[col]; ok {
		a.scores[n].Score += score
		return
	}
	a.index[col] = len(a.scores)
	a.scores = append(a.scores, Recommendation{Title: title, Score: score})
	a.cols = append(a.cols, col)
}

// top drops excluded columns and returns the k best scores. The sort is
// stable, so equal scores keep first-seen order.
func (a *accumulator) top(k int, exclude mapset.Set[int]) []Recommendation {
	result := make([]Recommendation, 0, len(a.scores))
	for n, rec := range a.scores {
		if !exclude.Contains(a.cols[n]) {
			result = append(result, rec)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Score > result[j].Score
	})
	if len(result) > k {
		result = result[:k]
	}
	return result
}

// UserBased recommends titles liked by the k users most similar to the target.
type UserBased struct {
	matrix     *dataset.UserItemMatrix
	similarity *SimilarityMatrix
}

func NewUserBased(m *dataset.UserItemMatrix, similarity *SimilarityMatrix) *UserBased {
	return &UserBased{matrix: m, similarity: similarity}
}

func (r *UserBased) Recommend(userId, k int) ([]Recommendation, error) {
	u, err := r.matrix.MustUserIndex(userId)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []Recommendation{}, nil
	}
	seen := mapset.NewThreadUnsafeSet(r.matrix.Rated(u)...)
	acc := newAccumulator()
	neighbors, weights := r.similarity.Neighbors(u, k)
	for n, v := range neighbors {
		for _, j := range r.matrix.RatedAbove(v, userLikedThreshold) {
			acc.add(j, r.matrix.Title(j), weights[n])
		}
	}
	return acc.top(k, seen), nil
}

type ItemBasedOptions struct {
	// NumNeighbors is the number of similar titles expanded per liked title.
	// Zero means k.
	NumNeighbors int
}

// ItemBased recommends titles similar to the ones the target liked, weighted
// by the target's rating of each liked title.
type ItemBased struct {
	matrix       *dataset.UserItemMatrix
	similarity   *SimilarityMatrix
	numNeighbors int
}

func NewItemBased(m *dataset.UserItemMatrix, similarity *SimilarityMatrix, opts *ItemBasedOptions) *ItemBased {
	r := &ItemBased{matrix: m, similarity: similarity}
	if opts != nil {
		r.numNeighbors = opts.NumNeighbors
	}
	return r
}

func (r *ItemBased) Recommend(userId, k int) ([]Recommendation, error) {
	u, err := r.matrix.MustUserIndex(userId)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return []Recommendation{}, nil
	}
	n := k
	if r.numNeighbors > 0 {
		n = r.numNeighbors
	}
	acc := newAccumulator()
	for _, t := range r.matrix.RatedAtLeast(u, itemLikedThreshold) {
		rating := r.matrix.Get(u, t)
		neighbors, scores := r.similarity.Neighbors(t, n)
		for i, s := range neighbors {
			acc.add(s, r.matrix.Title(s), scores[i]*rating)
		}
	}
	seen := mapset.NewThreadUnsafeSet(r.matrix.Rated(u)...)
	return acc.top(k, seen), nil
}
