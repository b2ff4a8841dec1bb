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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/movierec/base/log"
	"github.com/gorse-io/movierec/dataset"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// relevantThreshold: a held-out rating strictly above it is relevant.
const relevantThreshold = 3

// Report is the outcome of evaluating one (user, k, method) combination.
type Report struct {
	Method          string
	UserId          int
	K               int
	Recommendations []Recommendation
	GroundTruth     []string
	Hits            int
	Precision       float64
}

// Label returns the display name of the method, e.g. "User_based".
func (r *Report) Label() string {
	switch r.Method {
	case MethodUser:
		return "User_based"
	case MethodItem:
		return "Item_based"
	}
	return r.Method
}

func (r *Report) RecommendedTitles() []string {
	return lo.Map(r.Recommendations, func(rec Recommendation, _ int) string {
		return rec.Title
	})
}

// Evaluator scores recommenders against held-out ratings.
type Evaluator struct {
	test         *dataset.Dataset
	recommenders map[string]Recommender
}

func NewEvaluator(test *dataset.Dataset, recommenders map[string]Recommender) *Evaluator {
	return &Evaluator{test: test, recommenders: recommenders}
}

// Evaluate runs one recommender for one user and measures precision@k.
func (e *Evaluator) Evaluate(userId, k int, method string) (*Report, error) {
	recommender, ok := e.recommenders[method]
	if !ok {
		return nil, errors.NotValidf("method %q", method)
	}
	recommendations, err := recommender.Recommend(userId, k)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to recommend with %s-based CF", method)
	}
	report := &Report{
		Method:          method,
		UserId:          userId,
		K:               k,
		Recommendations: recommendations,
		GroundTruth:     e.GroundTruth(userId),
	}
	truth := mapset.NewThreadUnsafeSet(report.GroundTruth...)
	report.Hits = hits(truth, report.RecommendedTitles())
	report.Precision = Precision(truth, report.RecommendedTitles(), k)
	log.Logger().Debug("complete evaluation",
		zap.String("method", method),
		zap.Int("user_id", userId),
		zap.Int("k", k),
		zap.Int("n_recommendations", len(recommendations)),
		zap.Int("n_ground_truth", len(report.GroundTruth)),
		zap.Int("hits", report.Hits))
	return report, nil
}

// GroundTruth returns titles the user rated above the relevance threshold in
// the test set, in test order without duplicates. Distinct movies sharing a
// title count once, so its length can be below the number of relevant test
// ratings. Hits are unaffected since recommendations are unique titles.
func (e *Evaluator) GroundTruth(userId int) []string {
	relevant := lo.Filter(e.test.GetUserRatings(userId), func(r dataset.Rating, _ int) bool {
		return r.Rating > relevantThreshold
	})
	return lo.Uniq(lo.Map(relevant, func(r dataset.Rating, _ int) string {
		return r.Title
	}))
}

func hits(truth mapset.Set[string], recommended []string) int {
	return lo.CountBy(recommended, func(title string) bool {
		return truth.Contains(title)
	})
}

// Precision is the fraction of relevant titles among the recommended ones,
// always divided by the requested k rather than the number returned.
//
//	precision@k = |relevant ∩ recommended| / k
func Precision(truth mapset.Set[string], recommended []string, k int) float64 {
	if k <= 0 {
		return 0
	}
	return float64(hits(truth, lo.Slice(recommended, 0, k))) / float64(k)
}
