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
	"github.com/chewxy/math32"
	"github.com/gorse-io/blend/dataset"
)

// ContentBased predicts ratings from item features alone, independent of other
// users' ratings.
type ContentBased struct{}

func NewContentBased() *ContentBased {
	return &ContentBased{}
}

// UserProfile derives the preference vector of a user: the sum of rated items'
// feature vectors weighted by the rating centered at the scale midpoint, then
// L2-normalized. Ratings above the midpoint pull tags in, ratings below push
// them out. Users without ratings get the zero vector. Items are accumulated
// in catalog order so the result is reproducible.
func (cb *ContentBased) UserProfile(data *dataset.Dataset, userId string) []float32 {
	profile := make([]float32, len(data.Vocabulary()))
	ratings := data.UserRatings(userId)
	if len(ratings) == 0 {
		return profile
	}
	midpoint := data.Scale().Midpoint()
	for _, item := range data.Items() {
		if score, exist := ratings[item.ItemId]; exist {
			weight := float32(score - midpoint)
			vector := data.FeatureVector(item.ItemId)
			for i := range profile {
				profile[i] += weight * vector[i]
			}
		}
	}
	var norm float32
	for _, v := range profile {
		norm += v * v
	}
	if norm > 0 {
		norm = math32.Sqrt(norm)
		for i := range profile {
			profile[i] /= norm
		}
	}
	return profile
}

// Predict returns the stored rating verbatim if (user, item) is rated.
// Otherwise the cosine similarity between the user profile and the item's
// feature vector is mapped linearly onto the rating scale and clamped. A cold
// user has a zero profile, so the prediction collapses to the midpoint.
func (cb *ContentBased) Predict(data *dataset.Dataset, userId, itemId string) float64 {
	if score, exist := data.GetRating(userId, itemId); exist {
		return score
	}
	similarity := Cosine(cb.UserProfile(data, userId), data.FeatureVector(itemId))
	scale := data.Scale()
	return scale.Clamp(scale.Midpoint() + float64(similarity)*scale.HalfWidth())
}
