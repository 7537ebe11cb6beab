// Copyright 2026 blend Project Authors
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
	"math"
	"time"

	"github.com/expr-lang/expr"
	"github.com/go-playground/validator/v10"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

// Config is the configuration for the engine.
type Config struct {
	Scale   ScaleConfig   `mapstructure:"scale"`
	Hybrid  HybridConfig  `mapstructure:"hybrid"`
	KNN     KNNConfig     `mapstructure:"knn"`
	Popular PopularConfig `mapstructure:"popular"`
	Cache   CacheConfig   `mapstructure:"cache"`
}

// ScaleConfig bounds rating scores. Every prediction is clamped to [Min, Max].
type ScaleConfig struct {
	Min float64 `mapstructure:"min"`
	Max float64 `mapstructure:"max" validate:"gtfield=Min"`
}

// Midpoint is the neutral score of the scale.
func (s ScaleConfig) Midpoint() float64 {
	return (s.Min + s.Max) / 2
}

// HalfWidth is the distance from the midpoint to either bound.
func (s ScaleConfig) HalfWidth() float64 {
	return (s.Max - s.Min) / 2
}

// Clamp returns v limited to [Min, Max].
func (s ScaleConfig) Clamp(v float64) float64 {
	if v < s.Min {
		return s.Min
	}
	if v > s.Max {
		return s.Max
	}
	return v
}

// HybridConfig blends collaborative and content-based predictions. The weights
// conventionally sum to 1 but are not required to.
type HybridConfig struct {
	CFWeight float64 `mapstructure:"cf_weight" validate:"gte=0"`
	CBWeight float64 `mapstructure:"cb_weight" validate:"gte=0"`
}

type KNNConfig struct {
	Neighbors int `mapstructure:"neighbors" validate:"gt=0"`
}

// PopularConfig holds the popularity score expression. The expression is
// evaluated with `mean` (mean rating) and `count` (number of ratings).
type PopularConfig struct {
	Score string `mapstructure:"score" validate:"required"`
}

type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// GetDefaultConfig returns the default configuration: a 1-5 scale, 0.6/0.4
// hybrid weights, 3 neighbors and the count-damped popularity score.
func GetDefaultConfig() *Config {
	return &Config{
		Scale:   ScaleConfig{Min: 1, Max: 5},
		Hybrid:  HybridConfig{CFWeight: 0.6, CBWeight: 0.4},
		KNN:     KNNConfig{Neighbors: 3},
		Popular: PopularConfig{Score: "mean * log(1 + count)"},
		Cache:   CacheConfig{TTL: 10 * time.Minute},
	}
}

func setDefault(config *Config) {
	defaults := GetDefaultConfig()
	viper.SetDefault("scale.min", defaults.Scale.Min)
	viper.SetDefault("scale.max", defaults.Scale.Max)
	viper.SetDefault("hybrid.cf_weight", defaults.Hybrid.CFWeight)
	viper.SetDefault("hybrid.cb_weight", defaults.Hybrid.CBWeight)
	viper.SetDefault("knn.neighbors", defaults.KNN.Neighbors)
	viper.SetDefault("popular.score", defaults.Popular.Score)
	viper.SetDefault("cache.ttl", defaults.Cache.TTL)
	*config = *defaults
}

// LoadConfig loads configuration from a TOML file.
func LoadConfig(path string) (*Config, error) {
	config := new(Config)
	setDefault(config)
	viper.SetConfigType("toml")
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return nil, errors.Trace(err)
	}
	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Trace(err)
	}
	if err := config.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return config, nil
}

// Validate checks field constraints and compiles the popularity expression.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.Trace(err)
	}
	if _, err := expr.Compile(config.Popular.Score, expr.Env(map[string]any{
		"mean":  float64(0),
		"count": float64(0),
		"log":   math.Log,
	})); err != nil {
		return errors.NotValidf("popularity score %q", config.Popular.Score)
	}
	return nil
}
