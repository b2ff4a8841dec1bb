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
	"fmt"
	"io"
	"strings"

	"github.com/gorse-io/movierec/logics"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const (
	shortRule = "---------------------"
	longRule  = "---------------------------------------------------"
)

// formatTitles renders titles as ['a', 'b'].
func formatTitles(titles []string) string {
	return "[" + strings.Join(lo.Map(titles, func(title string, _ int) string {
		return "'" + title + "'"
	}), ", ") + "]"
}

func printReport(w io.Writer, report *logics.Report) error {
	if _, err := fmt.Fprintf(w, "using %s_Matrix : \n%s\n"+
		"Recs for User %d: %s\n"+
		"\nTrue Hits in Test Set: %s\n\nLen : %d\n"+
		"\nHits: %d\n"+
		"\nPrecision@%d for this user is: %.0f%%\n%s\n\n",
		report.Label(), shortRule,
		report.UserId, formatTitles(report.RecommendedTitles()),
		formatTitles(report.GroundTruth), len(report.GroundTruth),
		report.Hits,
		report.K, report.Precision*100, longRule,
	); err != nil {
		return errors.Trace(err)
	}
	if len(report.Recommendations) == 0 {
		return nil
	}
	table := tablewriter.NewWriter(w)
	table.Header("#", "Title", "Score")
	for i, rec := range report.Recommendations {
		if err := table.Append(fmt.Sprintf("%d", i+1), rec.Title, fmt.Sprintf("%.4f", rec.Score)); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
