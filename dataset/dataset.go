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
	"math"
	"math/rand"
	"time"

	"github.com/gorse-io/movierec/base/log"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Rating is one explicit rating joined with the title of the rated movie.
type Rating struct {
	UserId    int
	MovieId   int
	Title     string
	Rating    float64
	Timestamp time.Time
}

type Movie struct {
	MovieId int
	Title   string
}

// Dataset is an immutable, ordered collection of ratings.
type Dataset struct {
	ratings     []Rating
	userRatings map[int][]int
}

func NewDataset(ratings []Rating) *Dataset {
	d := &Dataset{
		ratings:     ratings,
		userRatings: make(map[int][]int),
	}
	for i, rating := range ratings {
		d.userRatings[rating.UserId] = append(d.userRatings[rating.UserId], i)
	}
	return d
}

func (d *Dataset) GetRatings() []Rating {
	return d.ratings
}

func (d *Dataset) Count() int {
	return len(d.ratings)
}

func (d *Dataset) CountUsers() int {
	return len(d.userRatings)
}

// GetUserRatings returns ratings of a user in dataset order.
func (d *Dataset) GetUserRatings(userId int) []Rating {
	return lo.Map(d.userRatings[userId], func(i int, _ int) Rating {
		return d.ratings[i]
	})
}

// Merge joins ratings with movie titles on movie id. Ratings of unknown
// movies are dropped.
func Merge(ratings []Rating, movies []Movie) *Dataset {
	titles := lo.SliceToMap(movies, func(m Movie) (int, string) {
		return m.MovieId, m.Title
	})
	merged := make([]Rating, 0, len(ratings))
	for _, rating := range ratings {
		title, ok := titles[rating.MovieId]
		if !ok {
			continue
		}
		rating.Title = title
		merged = append(merged, rating)
	}
	if dropped := len(ratings) - len(merged); dropped > 0 {
		log.Logger().Warn("drop ratings of unknown movies", zap.Int("dropped", dropped))
	}
	return NewDataset(merged)
}

// Split shuffles ratings with a seeded generator and holds out
// ceil(n * testRatio) of them as the test set. The same seed always
// produces the same partitions.
func (d *Dataset) Split(testRatio float64, seed int64) (train, test *Dataset) {
	n := len(d.ratings)
	testSize := int(math.Ceil(float64(n) * testRatio))
	testSize = lo.Clamp(testSize, 0, n)
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	pick := func(index []int) []Rating {
		return lo.Map(index, func(i int, _ int) Rating {
			return d.ratings[i]
		})
	}
	return NewDataset(pick(perm[testSize:])), NewDataset(pick(perm[:testSize]))
}
