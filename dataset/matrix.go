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

package dataset

import (
	"github.com/juju/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// UserItemMatrix is a dense user × title rating matrix. Rows follow ascending
// user ids and columns follow ascending titles. A zero cell means "unrated".
// The matrix is never modified after construction.
type UserItemMatrix struct {
	users  *Dict[int]
	titles *Dict[string]
	dense  *mat.Dense
}

// NewUserItemMatrix pivots ratings into a user-item matrix. When a user rated
// the same title more than once the cell holds the mean rating.
func NewUserItemMatrix(ratings []Rating) *UserItemMatrix {
	m := &UserItemMatrix{
		users: NewSortedDict(lo.Map(ratings, func(r Rating, _ int) int {
			return r.UserId
		})),
		titles: NewSortedDict(lo.Map(ratings, func(r Rating, _ int) string {
			return r.Title
		})),
	}
	if len(ratings) == 0 {
		return m
	}
	sum := mat.NewDense(m.users.Count(), m.titles.Count(), nil)
	count := mat.NewDense(m.users.Count(), m.titles.Count(), nil)
	for _, rating := range ratings {
		i, _ := m.users.Lookup(rating.UserId)
		j, _ := m.titles.Lookup(rating.Title)
		sum.Set(i, j, sum.At(i, j)+rating.Rating)
		count.Set(i, j, count.At(i, j)+1)
	}
	sum.Apply(func(i, j int, v float64) float64 {
		if c := count.At(i, j); c > 0 {
			return v / c
		}
		return 0
	}, sum)
	m.dense = sum
	return m
}

// CountUsers returns the number of rows.
func (m *UserItemMatrix) CountUsers() int {
	return m.users.Count()
}

// CountTitles returns the number of columns.
func (m *UserItemMatrix) CountTitles() int {
	return m.titles.Count()
}

func (m *UserItemMatrix) UserIds() []int {
	return m.users.Labels()
}

func (m *UserItemMatrix) Titles() []string {
	return m.titles.Labels()
}

func (m *UserItemMatrix) UserIndex(userId int) (int, bool) {
	return m.users.Lookup(userId)
}

func (m *UserItemMatrix) TitleIndex(title string) (int, bool) {
	return m.titles.Lookup(title)
}

func (m *UserItemMatrix) Title(j int) string {
	title, _ := m.titles.String(j)
	return title
}

// MustUserIndex returns the row of a user or a not found error.
func (m *UserItemMatrix) MustUserIndex(userId int) (int, error) {
	i, ok := m.users.Lookup(userId)
	if !ok {
		return 0, errors.NotFoundf("user %d", userId)
	}
	return i, nil
}

func (m *UserItemMatrix) Get(i, j int) float64 {
	return m.dense.At(i, j)
}

// Row returns a copy of the ratings given by user i.
func (m *UserItemMatrix) Row(i int) []float64 {
	return mat.Row(nil, i, m.dense)
}

// Col returns a copy of the ratings received by title j.
func (m *UserItemMatrix) Col(j int) []float64 {
	return mat.Col(nil, j, m.dense)
}

// Rated returns the columns user i rated, in column order.
func (m *UserItemMatrix) Rated(i int) []int {
	return m.RatedAbove(i, 0)
}

// RatedAbove returns the columns user i rated strictly above threshold.
func (m *UserItemMatrix) RatedAbove(i int, threshold float64) []int {
	var columns []int
	for j := 0; j < m.CountTitles(); j++ {
		if m.dense.At(i, j) > threshold {
			columns = append(columns, j)
		}
	}
	return columns
}

// RatedAtLeast returns the columns user i rated at or above threshold.
func (m *UserItemMatrix) RatedAtLeast(i int, threshold float64) []int {
	var columns []int
	for j := 0; j < m.CountTitles(); j++ {
		if m.dense.At(i, j) >= threshold {
			columns = append(columns, j)
		}
	}
	return columns
}
