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
	"time"

	"github.com/gorse-io/blend/base/heap"
	"github.com/gorse-io/blend/base/log"
	"github.com/gorse-io/blend/base/parallel"
	"github.com/gorse-io/blend/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const fitBatchSize = 8

// KNN is the user-based collaborative filter. Fit precomputes the full
// user-user Pearson table; without a fit, pairwise similarities are computed
// on demand through the similarity cache.
type KNN struct {
	neighbors   int
	cache       *SimilarityCache
	users       []string
	index       map[string]int
	matrix      [][]float64
	version     uint64
	fitted      bool
	staleWarned bool
}

// NewKNN creates a user-based collaborative filter. The cache is optional and
// only serves predictions issued before Fit or after a store mutation.
func NewKNN(neighbors int, cache *SimilarityCache) *KNN {
	return &KNN{
		neighbors: neighbors,
		cache:     cache,
	}
}

// Fit precomputes the user-user similarity table. The cost is
// O(U^2 * co-rated items); rows are scheduled in parallel batches and the
// context cancels the remaining batches.
func (knn *KNN) Fit(ctx context.Context, data *dataset.Dataset, nJobs int) error {
	start := time.Now()
	users := data.Users()
	matrix := make([][]float64, len(users))
	err := parallel.BatchParallel(ctx, len(users), nJobs, fitBatchSize, func(_, beginJobId, endJobId int) error {
		for i := beginJobId; i < endJobId; i++ {
			row := make([]float64, len(users))
			ratings := data.UserRatings(users[i])
			for j := range users {
				if i != j {
					row[j] = Pearson(ratings, data.UserRatings(users[j]))
				}
			}
			matrix[i] = row
		}
		return nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	knn.users = users
	knn.index = make(map[string]int, len(users))
	for i, userId := range users {
		knn.index[userId] = i
	}
	knn.matrix = matrix
	knn.version = data.Version()
	knn.fitted = true
	knn.staleWarned = false
	log.Logger().Debug("fitted user-user similarity table",
		zap.Int("n_users", len(users)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

func (knn *KNN) similarity(data *dataset.Dataset, a, b string) float64 {
	if knn.fitted && knn.version == data.Version() {
		if i, exist := knn.index[a]; exist {
			if j, exist := knn.index[b]; exist {
				return knn.matrix[i][j]
			}
		}
	}
	if knn.cache != nil {
		if similarity, exist := knn.cache.Get(data.Version(), a, b); exist {
			return similarity
		}
	}
	similarity := Pearson(data.UserRatings(a), data.UserRatings(b))
	if knn.cache != nil {
		knn.cache.Set(data.Version(), a, b, similarity)
	}
	return similarity
}

// Predict returns the stored rating verbatim if (user, item) is rated.
// Otherwise it returns the similarity-weighted average over the top-k
// positively similar raters of the item, falling back to the user's mean
// rating and finally to the scale midpoint. Predictions never fail on sparse
// data.
func (knn *KNN) Predict(data *dataset.Dataset, userId, itemId string) float64 {
	if score, exist := data.GetRating(userId, itemId); exist {
		return score
	}
	if knn.fitted && knn.version != data.Version() && !knn.staleWarned {
		log.Logger().Warn("rating store changed since fit, falling back to on-demand similarity",
			zap.Uint64("fit_version", knn.version),
			zap.Uint64("store_version", data.Version()))
		knn.staleWarned = true
	}
	filter := heap.NewTopKFilter[string, float64](knn.neighbors)
	for _, rater := range data.ItemRaters(itemId) {
		if rater == userId {
			continue
		}
		if similarity := knn.similarity(data, userId, rater); similarity > 0 {
			filter.Push(rater, similarity)
		}
	}
	neighbors, similarities := filter.PopAll()
	if len(neighbors) > 0 {
		numerator, denominator := 0.0, 0.0
		for i, neighbor := range neighbors {
			score, _ := data.GetRating(neighbor, itemId)
			numerator += similarities[i] * score
			denominator += similarities[i]
		}
		return numerator / denominator
	}
	if mean, exist := data.UserMean(userId); exist {
		return mean
	}
	return data.Scale().Midpoint()
}
