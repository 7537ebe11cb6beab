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
	"math"
	"time"

	"github.com/gorse-io/blend/base/heap"
	"github.com/gorse-io/blend/base/log"
	"github.com/gorse-io/blend/base/parallel"
	"github.com/gorse-io/blend/dataset"
	"github.com/juju/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type heldOut struct {
	userId string
	itemId string
	score  float64
}

// Evaluate measures rating accuracy by leave-one-out: every observed rating is
// excluded from an independent copy of the store, predicted from the rest and
// compared to the truth. Iterations are independent and run in parallel; the
// shared store is never mutated. Returns RMSE and MAE, both 0 for an empty
// store.
func Evaluate(ctx context.Context, data *dataset.Dataset, h *Hybrid, nJobs int) (rmse, mae float64, err error) {
	start := time.Now()
	var ratings []heldOut
	for _, userId := range data.Users() {
		userRatings := data.UserRatings(userId)
		for _, item := range data.Items() {
			if score, exist := userRatings[item.ItemId]; exist {
				ratings = append(ratings, heldOut{userId: userId, itemId: item.ItemId, score: score})
			}
		}
	}
	if len(ratings) == 0 {
		return 0, 0, nil
	}
	predictions := make([]float64, len(ratings))
	truth := make([]float64, len(ratings))
	completed := atomic.NewInt64(0)
	err = parallel.Parallel(ctx, len(ratings), nJobs, func(_, jobId int) error {
		r := ratings[jobId]
		reduced := data.CopyWithout(r.userId, r.itemId)
		cf := NewKNN(h.CF.neighbors, nil)
		if err := cf.Fit(ctx, reduced, 1); err != nil {
			return errors.Trace(err)
		}
		local := NewHybrid(cf, h.CB, h.Weights)
		predictions[jobId] = local.Predict(reduced, r.userId, r.itemId)
		truth[jobId] = r.score
		completed.Inc()
		return nil
	})
	if err != nil {
		return 0, 0, errors.Trace(err)
	}
	rmse, mae = RMSE(predictions, truth), MAE(predictions, truth)
	log.Logger().Debug("leave-one-out evaluation complete",
		zap.Int64("n_ratings", completed.Load()),
		zap.Float64("rmse", rmse),
		zap.Float64("mae", mae),
		zap.Duration("elapsed", time.Since(start)))
	return rmse, mae, nil
}

// RMSE is the root mean square error.
func RMSE(predictions, truth []float64) float64 {
	temp := make([]float64, len(predictions))
	floats.SubTo(temp, predictions, truth)
	floats.Mul(temp, temp)
	return math.Sqrt(stat.Mean(temp, nil))
}

// MAE is the mean absolute error.
func MAE(predictions, truth []float64) float64 {
	temp := make([]float64, len(predictions))
	floats.SubTo(temp, predictions, truth)
	for i := range temp {
		temp[i] = math.Abs(temp[i])
	}
	return stat.Mean(temp, nil)
}

// PrecisionRecallAtK measures ranking accuracy for one user. Relevant items
// are those the user actually rated at or above the threshold; the ranked list
// covers the full catalog by predicted score, descending. Recall is 0 when the
// relevant set is empty and F1 is 0 when precision and recall are both 0, so
// sparse users yield degenerate metrics instead of errors.
func PrecisionRecallAtK(data *dataset.Dataset, h *Hybrid, userId string, k int, threshold float64) (precision, recall, f1 float64) {
	if k <= 0 || data.CountItems() == 0 {
		return 0, 0, 0
	}
	relevant := make(map[string]struct{})
	for itemId, score := range data.UserRatings(userId) {
		if score >= threshold {
			relevant[itemId] = struct{}{}
		}
	}
	filter := heap.NewTopKFilter[string, float64](k)
	for _, item := range data.Items() {
		filter.Push(item.ItemId, h.Predict(data, userId, item.ItemId))
	}
	ranked, _ := filter.PopAll()
	hits := 0
	for _, itemId := range ranked {
		if _, exist := relevant[itemId]; exist {
			hits++
		}
	}
	precision = float64(hits) / float64(k)
	if len(relevant) > 0 {
		recall = float64(hits) / float64(len(relevant))
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}
