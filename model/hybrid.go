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
	"github.com/gorse-io/blend/base/heap"
	"github.com/gorse-io/blend/config"
	"github.com/gorse-io/blend/dataset"
)

// Score pairs an id with a predicted score.
type Score struct {
	Id    string
	Score float64
}

// Hybrid blends collaborative and content-based predictions linearly.
type Hybrid struct {
	CF      *KNN
	CB      *ContentBased
	Weights config.HybridConfig
}

func NewHybrid(cf *KNN, cb *ContentBased, weights config.HybridConfig) *Hybrid {
	return &Hybrid{
		CF:      cf,
		CB:      cb,
		Weights: weights,
	}
}

// Predict returns the stored rating verbatim if (user, item) is rated,
// regardless of the weight configuration. Otherwise it blends the component
// predictions and clamps to the scale, so weights that do not sum to 1 cannot
// push the result out of range.
func (h *Hybrid) Predict(data *dataset.Dataset, userId, itemId string) float64 {
	if score, exist := data.GetRating(userId, itemId); exist {
		return score
	}
	blended := h.Weights.CFWeight*h.CF.Predict(data, userId, itemId) +
		h.Weights.CBWeight*h.CB.Predict(data, userId, itemId)
	return data.Scale().Clamp(blended)
}

// Recommend scores every item the user has not rated and returns the top n by
// predicted score, descending. Equal scores keep catalog insertion order. The
// result is identical across calls absent store mutation.
func (h *Hybrid) Recommend(data *dataset.Dataset, userId string, n int) []Score {
	rated := data.UserRatings(userId)
	filter := heap.NewTopKFilter[string, float64](n)
	for _, item := range data.Items() {
		if _, exist := rated[item.ItemId]; exist {
			continue
		}
		filter.Push(item.ItemId, h.Predict(data, userId, item.ItemId))
	}
	items, scores := filter.PopAll()
	result := make([]Score, len(items))
	for i, itemId := range items {
		result[i] = Score{Id: itemId, Score: scores[i]}
	}
	return result
}
