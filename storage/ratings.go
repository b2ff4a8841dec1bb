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

package storage

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gorse-io/movierec/base/log"
	"github.com/gorse-io/movierec/dataset"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// SQLRating is a row of the ratings table. Timestamps are read as text so
// that unix seconds and formatted dates are both accepted.
type SQLRating struct {
	UserId    int     `gorm:"column:user_id"`
	MovieId   int     `gorm:"column:movie_id"`
	Rating    float64 `gorm:"column:rating"`
	Timestamp string  `gorm:"column:timestamp"`
}

// SQLMovie is a row of the movies table.
type SQLMovie struct {
	MovieId int    `gorm:"column:movie_id;primaryKey"`
	Title   string `gorm:"column:title"`
}

// RatingStore reads MovieLens style ratings and movies from a SQL database.
// It never writes.
type RatingStore struct {
	TablePrefix
	gormDB *gorm.DB
}

// Open connects to a database given as mysql://, postgres://, postgresql://
// or sqlite:// URL.
func Open(path, tablePrefix string) (*RatingStore, error) {
	var (
		dialector gorm.Dialector
		err       error
	)
	if strings.HasPrefix(path, MySQLPrefix) {
		dialector = mysql.Open(path[len(MySQLPrefix):])
	} else if strings.HasPrefix(path, PostgresPrefix) || strings.HasPrefix(path, PostgreSQLPrefix) {
		dialector = postgres.Open(path)
	} else if strings.HasPrefix(path, SQLitePrefix) {
		if path, err = AppendURLParams(path, []lo.Tuple2[string, string]{
			{A: "_pragma", B: "busy_timeout(10000)"},
		}); err != nil {
			return nil, errors.Trace(err)
		}
		client, err := sql.Open("sqlite", path[len(SQLitePrefix):])
		if err != nil {
			return nil, errors.Trace(err)
		}
		dialector = sqlite.Dialector{Conn: client}
	} else {
		return nil, errors.Errorf("Unknown database: %s", log.RedactDBURL(path))
	}
	gormDB, err := gorm.Open(dialector, NewGORMConfig(tablePrefix))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &RatingStore{TablePrefix: TablePrefix(tablePrefix), gormDB: gormDB}, nil
}

func (s *RatingStore) Close() error {
	db, err := s.gormDB.DB()
	if err != nil {
		return errors.Trace(err)
	}
	return db.Close()
}

func (s *RatingStore) LoadRatings(ctx context.Context) ([]dataset.Rating, error) {
	var rows []SQLRating
	if err := s.gormDB.WithContext(ctx).Order("user_id, movie_id").Find(&rows).Error; err != nil {
		return nil, errors.Annotatef(err, "failed to read %s", s.RatingsTable())
	}
	ratings := make([]dataset.Rating, 0, len(rows))
	for _, row := range rows {
		timestamp, err := parseTimestamp(row.Timestamp)
		if err != nil {
			return nil, errors.Annotatef(err, "invalid timestamp of user %d movie %d", row.UserId, row.MovieId)
		}
		ratings = append(ratings, dataset.Rating{
			UserId:    row.UserId,
			MovieId:   row.MovieId,
			Rating:    row.Rating,
			Timestamp: timestamp,
		})
	}
	return ratings, nil
}

func (s *RatingStore) LoadMovies(ctx context.Context) ([]dataset.Movie, error) {
	var rows []SQLMovie
	if err := s.gormDB.WithContext(ctx).Order("movie_id").Find(&rows).Error; err != nil {
		return nil, errors.Annotatef(err, "failed to read %s", s.MoviesTable())
	}
	return lo.Map(rows, func(row SQLMovie, _ int) dataset.Movie {
		return dataset.Movie{MovieId: row.MovieId, Title: row.Title}
	}), nil
}

// LoadDataset reads both tables and joins them on movie id.
func (s *RatingStore) LoadDataset(ctx context.Context) (*dataset.Dataset, error) {
	start := time.Now()
	ratings, err := s.LoadRatings(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	movies, err := s.LoadMovies(ctx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	data := dataset.Merge(ratings, movies)
	log.Logger().Info("load dataset from database",
		zap.Int("n_ratings", len(ratings)),
		zap.Int("n_movies", len(movies)),
		zap.Duration("elapsed", time.Since(start)))
	return data, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC(), nil
	}
	return dateparse.ParseAny(s)
}
