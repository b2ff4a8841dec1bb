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
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gorse-io/movierec/base/log"
	"github.com/gorse-io/movierec/cmd/version"
	"github.com/gorse-io/movierec/common/datautil"
	"github.com/gorse-io/movierec/config"
	"github.com/gorse-io/movierec/dataset"
	"github.com/gorse-io/movierec/logics"
	"github.com/gorse-io/movierec/storage"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "movierec",
	Short: "Memory-based collaborative filtering on MovieLens ratings.",
	Run: func(cmd *cobra.Command, args []string) {
		// setup logger
		debug, _ := cmd.PersistentFlags().GetBool("debug")
		log.SetLogger(cmd.PersistentFlags(), debug)

		// load config
		configPath, _ := cmd.PersistentFlags().GetString("config")
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			log.Logger().Fatal("failed to load config", zap.String("config", configPath), zap.Error(err))
		}
		fmt.Printf("Running %s-based CF for user_id=%d with K=%d\n\n",
			conf.Recommend.Method, conf.Recommend.UserId, conf.Recommend.K)

		// load data
		data, err := loadDataset(cmd.Context(), &conf.Dataset)
		if err != nil {
			log.Logger().Fatal("failed to load dataset", zap.Error(err))
		}
		if data.Count() == 0 {
			log.Logger().Fatal("empty dataset")
		}
		train, test := data.Split(conf.Split.TestRatio, conf.Split.Seed)
		log.Logger().Info("split dataset",
			zap.Int("n_train", train.Count()),
			zap.Int("n_test", test.Count()),
			zap.Int64("seed", conf.Split.Seed))

		// evaluate
		report, err := evaluate(train, test, conf)
		if err != nil {
			log.Logger().Fatal("failed to evaluate", zap.Error(err))
		}
		if err = printReport(os.Stdout, report); err != nil {
			log.Logger().Fatal("failed to print report", zap.Error(err))
		}
	},
}

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print the version of movierec",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(version.BuildInfo())
	},
}

func init() {
	rootCommand.AddCommand(versionCommand)
	flags := rootCommand.PersistentFlags()
	flags.StringP("config", "c", "", "configuration file path")
	flags.Bool("debug", false, "use debug log mode")
	log.AddFlags(flags)
	flags.Int("user-id", 10, "user to recommend for")
	flags.IntP("k", "k", 10, "length of the recommendation list")
	flags.StringP("method", "m", logics.MethodUser, "collaborative filtering method (user or item)")
	flags.String("ratings-file", "", "MovieLens ratings file (u.data)")
	flags.String("movies-file", "", "MovieLens movies file (u.item)")
	flags.String("data-store", "", "database holding ratings and movies tables")
	for key, name := range map[string]string{
		"recommend.user_id":    "user-id",
		"recommend.k":          "k",
		"recommend.method":     "method",
		"dataset.ratings_file": "ratings-file",
		"dataset.movies_file":  "movies-file",
		"dataset.data_store":   "data-store",
	} {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			log.Logger().Fatal("failed to bind flag", zap.String("flag", name), zap.Error(err))
		}
	}
}

// loadDataset reads ratings from the data store if set, then from local
// files, and falls back to the built-in dataset.
func loadDataset(ctx context.Context, conf *config.DatasetConfig) (*dataset.Dataset, error) {
	switch {
	case conf.DataStore != "":
		log.Logger().Info("load dataset from database", zap.String("data_store", log.RedactDBURL(conf.DataStore)))
		store, err := storage.Open(conf.DataStore, conf.TablePrefix)
		if err != nil {
			return nil, errors.Annotate(err, "failed to connect database")
		}
		defer store.Close()
		return store.LoadDataset(ctx)
	case conf.RatingsFile != "":
		return dataset.LoadMovieLens(conf.RatingsFile, conf.MoviesFile)
	default:
		dir, err := datautil.DownloadAndUnzip(ctx, conf.Name)
		if err != nil {
			return nil, errors.Trace(err)
		}
		return dataset.LoadMovieLensDir(dir)
	}
}

func evaluate(train, test *dataset.Dataset, conf *config.Config) (*logics.Report, error) {
	start := time.Now()
	m := dataset.NewUserItemMatrix(train.GetRatings())
	log.Logger().Info("build user-item matrix",
		zap.Int("n_users", m.CountUsers()),
		zap.Int("n_titles", m.CountTitles()),
		zap.Duration("elapsed", time.Since(start)))
	method := conf.Recommend.Method
	recommender, err := logics.NewRecommender(method, m, &logics.ItemBasedOptions{
		NumNeighbors: conf.Recommend.ItemNeighbors,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	evaluator := logics.NewEvaluator(test, map[string]logics.Recommender{method: recommender})
	return evaluator.Evaluate(conf.Recommend.UserId, conf.Recommend.K, method)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		log.Logger().Fatal("failed to execute command", zap.Error(err))
	}
}
