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

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration of a recommendation run.
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Split     SplitConfig     `mapstructure:"split"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

// DatasetConfig chooses where ratings come from. A data store takes
// precedence over local files, and local files over the built-in dataset.
type DatasetConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	RatingsFile string `mapstructure:"ratings_file"`
	MoviesFile  string `mapstructure:"movies_file" validate:"required_with=RatingsFile"`
	DataStore   string `mapstructure:"data_store"`
	TablePrefix string `mapstructure:"table_prefix"`
}

type SplitConfig struct {
	TestRatio float64 `mapstructure:"test_ratio" validate:"gt=0,lt=1"`
	Seed      int64   `mapstructure:"seed"`
}

// RecommendConfig selects the user and method. A k <= 0 is accepted and
// produces an empty recommendation list with zero precision.
type RecommendConfig struct {
	UserId        int    `mapstructure:"user_id"`
	K             int    `mapstructure:"k"`
	Method        string `mapstructure:"method" validate:"oneof=user item"`
	ItemNeighbors int    `mapstructure:"item_neighbors" validate:"gte=0"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Name: "ml-100k",
		},
		Split: SplitConfig{
			TestRatio: 0.25,
			Seed:      42,
		},
		Recommend: RecommendConfig{
			UserId: 10,
			K:      10,
			Method: "user",
		},
	}
}

func (config *Config) Validate() error {
	validate := validator.New()
	return validate.Struct(config)
}

func setDefault() {
	defaultConfig := GetDefaultConfig()
	// [dataset]
	viper.SetDefault("dataset.name", defaultConfig.Dataset.Name)
	// [split]
	viper.SetDefault("split.test_ratio", defaultConfig.Split.TestRatio)
	viper.SetDefault("split.seed", defaultConfig.Split.Seed)
	// [recommend]
	viper.SetDefault("recommend.user_id", defaultConfig.Recommend.UserId)
	viper.SetDefault("recommend.k", defaultConfig.Recommend.K)
	viper.SetDefault("recommend.method", defaultConfig.Recommend.Method)
	viper.SetDefault("recommend.item_neighbors", defaultConfig.Recommend.ItemNeighbors)
}

type configBinding struct {
	key string
	env string
}

func bindEnv() {
	bindings := []configBinding{
		{"dataset.data_store", "MOVIEREC_DATA_STORE"},
		{"dataset.table_prefix", "MOVIEREC_TABLE_PREFIX"},
		{"dataset.ratings_file", "MOVIEREC_RATINGS_FILE"},
		{"dataset.movies_file", "MOVIEREC_MOVIES_FILE"},
		{"recommend.user_id", "MOVIEREC_USER_ID"},
		{"recommend.k", "MOVIEREC_K"},
		{"recommend.method", "MOVIEREC_METHOD"},
	}
	for _, binding := range bindings {
		if err := viper.BindEnv(binding.key, binding.env); err != nil {
			panic(err)
		}
	}
}

func init() {
	setDefault()
	bindEnv()
}

// LoadConfig loads configuration from a TOML file. An empty path means
// defaults, environment variables and bound flags only.
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigType("toml")
	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, errors.Trace(err)
		}
	}
	var conf Config
	if err := viper.Unmarshal(&conf); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Annotate(err, "invalid config")
	}
	return &conf, nil
}
