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

package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorse-io/movierec/base/log"
	"github.com/gorse-io/movierec/config"
	"github.com/gorse-io/movierec/dataset"
	"github.com/gorse-io/movierec/logics"
	"github.com/stretchr/testify/assert"
)

func TestFormatTitles(t *testing.T) {
	assert.Equal(t, "[]", formatTitles(nil))
	assert.Equal(t, "['Toy Story (1995)', 'Heat (1995)']", formatTitles([]string{"Toy Story (1995)", "Heat (1995)"}))
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	err := printReport(&buf, &logics.Report{
		Method:          logics.MethodUser,
		UserId:          10,
		K:               10,
		Recommendations: []logics.Recommendation{{Title: "Heat (1995)", Score: 1.5}, {Title: "Babe (1995)", Score: 1.25}},
		GroundTruth:     []string{"Heat (1995)"},
		Hits:            1,
		Precision:       0.1,
	})
	assert.NoError(t, err)
	output := buf.String()
	assert.Contains(t, output, "using User_based_Matrix : \n---------------------\n")
	assert.Contains(t, output, "Recs for User 10: ['Heat (1995)', 'Babe (1995)']\n")
	assert.Contains(t, output, "\nTrue Hits in Test Set: ['Heat (1995)']\n\nLen : 1\n")
	assert.Contains(t, output, "\nHits: 1\n")
	assert.Contains(t, output, "\nPrecision@10 for this user is: 10%\n")
	assert.Contains(t, output, "1.5000")
	assert.Contains(t, output, "Babe (1995)")
}

func TestPrintEmptyReport(t *testing.T) {
	var buf bytes.Buffer
	err := printReport(&buf, &logics.Report{Method: logics.MethodItem, UserId: 3, K: 0})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "using Item_based_Matrix")
	assert.Contains(t, buf.String(), "Recs for User 3: []")
	assert.Contains(t, buf.String(), "Precision@0 for this user is: 0%")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, io.ErrShortWrite
}

func TestPrintReportWriteError(t *testing.T) {
	err := printReport(failingWriter{}, &logics.Report{Method: logics.MethodUser, UserId: 1, K: 10})
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestPrintNegativeK(t *testing.T) {
	var buf bytes.Buffer
	err := printReport(&buf, &logics.Report{
		Method:      logics.MethodUser,
		UserId:      10,
		K:           -1,
		GroundTruth: []string{"Heat (1995)"},
	})
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Recs for User 10: []\n")
	assert.Contains(t, buf.String(), "Len : 1\n")
	assert.Contains(t, buf.String(), "\nPrecision@-1 for this user is: 0%\n")
}

func TestLoadDatasetFromFiles(t *testing.T) {
	log.CloseLogger()
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, dataset.RatingsFile),
		[]byte("1\t1\t5\t881250949\n1\t2\t4\t881250949\n2\t1\t4\t881250949\n2\t3\t5\t881250949\n"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, dataset.MoviesFile),
		[]byte("1|A|x\n2|B|x\n3|C|x\n"), 0644))
	conf := config.GetDefaultConfig()
	conf.Dataset.RatingsFile = filepath.Join(dir, dataset.RatingsFile)
	conf.Dataset.MoviesFile = filepath.Join(dir, dataset.MoviesFile)
	data, err := loadDataset(context.Background(), &conf.Dataset)
	assert.NoError(t, err)
	assert.Equal(t, 4, data.Count())

	// train on everything and test on everything
	conf.Recommend.UserId = 1
	conf.Recommend.K = 1
	report, err := evaluate(data, data, conf)
	assert.NoError(t, err)
	assert.Equal(t, []string{"C"}, report.RecommendedTitles())
	assert.Equal(t, []string{"A", "B"}, report.GroundTruth)
	assert.Zero(t, report.Hits)

	// a negative k completes with an empty list
	conf.Recommend.K = -1
	assert.NoError(t, conf.Validate())
	report, err = evaluate(data, data, conf)
	assert.NoError(t, err)
	assert.Empty(t, report.Recommendations)
	assert.Zero(t, report.Precision)
	assert.NoError(t, printReport(&bytes.Buffer{}, report))

	conf.Recommend.K = 1
	conf.Recommend.UserId = 99
	_, err = evaluate(data, data, conf)
	assert.Error(t, err)
}
