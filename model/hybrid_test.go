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

package model

import (
	"context"
	"testing"

	"github.com/gorse-io/blend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHybridPredict(t *testing.T) {
	data := newTestStore(t)
	knn := NewKNN(3, nil)
	require.NoError(t, knn.Fit(context.Background(), data, 1))
	cb := NewContentBased()
	hybrid := NewHybrid(knn, cb, config.HybridConfig{CFWeight: 0.6, CBWeight: 0.4})

	// stored ratings are returned verbatim for any weight configuration
	assert.Equal(t, 5.0, hybrid.Predict(data, "alice", "m0"))
	lopsided := NewHybrid(knn, cb, config.HybridConfig{CFWeight: 2, CBWeight: 3})
	assert.Equal(t, 5.0, lopsided.Predict(data, "alice", "m0"))

	// the blend is the weighted sum of the component predictions
	expected := 0.6*knn.Predict(data, "carol", "m2") + 0.4*cb.Predict(data, "carol", "m2")
	assert.InDelta(t, expected, hybrid.Predict(data, "carol", "m2"), epsilon)

	// out-of-range blends are clamped
	assert.LessOrEqual(t, lopsided.Predict(data, "carol", "m2"), scale.Max)
	assert.GreaterOrEqual(t, lopsided.Predict(data, "carol", "m2"), scale.Min)
}

func TestHybridRecommend(t *testing.T) {
	data := newTestStore(t)
	knn := NewKNN(3, nil)
	require.NoError(t, knn.Fit(context.Background(), data, 1))
	hybrid := NewHybrid(knn, NewContentBased(), config.HybridConfig{CFWeight: 0.6, CBWeight: 0.4})

	// carol has not rated m2 and m3; the sci-fi m2 must come first
	recommended := hybrid.Recommend(data, "carol", 10)
	assert.Len(t, recommended, 2)
	assert.Equal(t, "m2", recommended[0].Id)
	assert.Equal(t, "m3", recommended[1].Id)
	assert.GreaterOrEqual(t, recommended[0].Score, recommended[1].Score)

	// rated items are never recommended
	for _, score := range recommended {
		_, rated := data.GetRating("carol", score.Id)
		assert.False(t, rated)
	}

	// truncation
	recommended = hybrid.Recommend(data, "carol", 1)
	assert.Len(t, recommended, 1)
	assert.Equal(t, "m2", recommended[0].Id)
}

func TestHybridRecommendIdempotent(t *testing.T) {
	data := newTestStore(t)
	knn := NewKNN(3, nil)
	require.NoError(t, knn.Fit(context.Background(), data, 1))
	hybrid := NewHybrid(knn, NewContentBased(), config.HybridConfig{CFWeight: 0.6, CBWeight: 0.4})

	first := hybrid.Recommend(data, "carol", 10)
	second := hybrid.Recommend(data, "carol", 10)
	assert.Equal(t, first, second)
}

func TestHybridRecommendColdUser(t *testing.T) {
	data := newTestStore(t)
	knn := NewKNN(3, nil)
	require.NoError(t, knn.Fit(context.Background(), data, 1))
	hybrid := NewHybrid(knn, NewContentBased(), config.HybridConfig{CFWeight: 0.6, CBWeight: 0.4})

	// every prediction collapses to neutral scores and ties keep catalog order
	recommended := hybrid.Recommend(data, "nobody", 10)
	assert.Len(t, recommended, 4)
	assert.Equal(t, []string{"m0", "m1", "m2", "m3"},
		[]string{recommended[0].Id, recommended[1].Id, recommended[2].Id, recommended[3].Id})
}
