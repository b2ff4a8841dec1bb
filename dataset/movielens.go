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
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorse-io/movierec/base/log"
	"github.com/gorse-io/movierec/common/util"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

const (
	RatingsFile = "u.data"
	MoviesFile  = "u.item"
)

// LoadRatings reads tab separated "user_id item_id rating timestamp" lines.
func LoadRatings(path string) ([]Rating, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	return ReadRatings(file)
}

func ReadRatings(r io.Reader) ([]Rating, error) {
	var ratings []Rating
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			return nil, errors.NotValidf("line %d of ratings %q", lineNumber, line)
		}
		userId, err := util.ParseInt[int](fields[0])
		if err != nil {
			return nil, errors.Annotatef(err, "line %d: user id", lineNumber)
		}
		movieId, err := util.ParseInt[int](fields[1])
		if err != nil {
			return nil, errors.Annotatef(err, "line %d: item id", lineNumber)
		}
		rating, err := util.ParseFloat[float64](fields[2])
		if err != nil {
			return nil, errors.Annotatef(err, "line %d: rating", lineNumber)
		}
		var timestamp time.Time
		if len(fields) > 3 {
			seconds, err := util.ParseInt[int64](fields[3])
			if err != nil {
				return nil, errors.Annotatef(err, "line %d: timestamp", lineNumber)
			}
			timestamp = time.Unix(seconds, 0).UTC()
		}
		ratings = append(ratings, Rating{
			UserId:    userId,
			MovieId:   movieId,
			Rating:    rating,
			Timestamp: timestamp,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return ratings, nil
}

// LoadMovies reads the latin-1 encoded, pipe separated movie list. Only the
// id and title columns are used.
func LoadMovies(path string) ([]Movie, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	return ReadMovies(charmap.ISO8859_1.NewDecoder().Reader(file))
}

func ReadMovies(r io.Reader) ([]Movie, error) {
	var movies []Movie
	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			return nil, errors.NotValidf("line %d of movies %q", lineNumber, line)
		}
		movieId, err := util.ParseInt[int](fields[0])
		if err != nil {
			return nil, errors.Annotatef(err, "line %d: movie id", lineNumber)
		}
		movies = append(movies, Movie{MovieId: movieId, Title: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	return movies, nil
}

// LoadMovieLens loads ratings and movies and joins them on movie id.
func LoadMovieLens(ratingsPath, moviesPath string) (*Dataset, error) {
	start := time.Now()
	ratings, err := LoadRatings(ratingsPath)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to load ratings from %s", ratingsPath)
	}
	movies, err := LoadMovies(moviesPath)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to load movies from %s", moviesPath)
	}
	data := Merge(ratings, movies)
	log.Logger().Info("load MovieLens dataset",
		zap.Int("n_ratings", data.Count()),
		zap.Int("n_users", data.CountUsers()),
		zap.Int("n_movies", len(movies)),
		zap.Duration("elapsed", time.Since(start)))
	return data, nil
}

// LoadMovieLensDir loads u.data and u.item from a dataset directory.
func LoadMovieLensDir(dir string) (*Dataset, error) {
	return LoadMovieLens(filepath.Join(dir, RatingsFile), filepath.Join(dir, MoviesFile))
}
