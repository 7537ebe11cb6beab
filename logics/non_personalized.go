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

package logics

import (
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/gorse-io/blend/base/heap"
	"github.com/gorse-io/blend/base/log"
	"github.com/gorse-io/blend/dataset"
	"github.com/gorse-io/blend/model"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ScoreEnv builds the evaluation environment of a popularity score expression.
// `mean` is the mean rating of the item, `count` the number of ratings.
func ScoreEnv(mean, count float64) map[string]any {
	return map[string]any{
		"mean":  mean,
		"count": count,
		"log":   math.Log,
	}
}

// Popular recommends items to anonymous users by a configurable popularity
// score. The default expression `mean * log(1 + count)` damps the mean by the
// rating count, so a single 5-star rating cannot dominate a widely rated item.
type Popular struct {
	scoreFunc *vm.Program
}

// NewPopular compiles the popularity score expression.
func NewPopular(score string) (*Popular, error) {
	scoreFunc, err := expr.Compile(score, expr.Env(ScoreEnv(0, 0)))
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Popular{scoreFunc: scoreFunc}, nil
}

// Recommend returns the top n items by popularity score, descending. Unrated
// items carry no evidence and are skipped; an empty store yields an empty
// result.
func (p *Popular) Recommend(data *dataset.Dataset, n int) []model.Score {
	filter := heap.NewTopKFilter[string, float64](n)
	for _, item := range data.Items() {
		raters := data.ItemRaters(item.ItemId)
		if len(raters) == 0 {
			continue
		}
		sum := 0.0
		for _, rater := range raters {
			score, _ := data.GetRating(rater, item.ItemId)
			sum += score
		}
		count := float64(len(raters))
		result, err := expr.Run(p.scoreFunc, ScoreEnv(sum/count, count))
		if err != nil {
			log.Logger().Error("evaluate popularity score", zap.Error(err))
			continue
		}
		var score float64
		switch typed := result.(type) {
		case float64:
			score = typed
		case int:
			score = float64(typed)
		default:
			log.Logger().Error("popularity score must return a number", zap.Any("result", result))
			continue
		}
		filter.Push(item.ItemId, score)
	}
	items, scores := filter.PopAll()
	return lo.Map(items, func(itemId string, i int) model.Score {
		return model.Score{Id: itemId, Score: scores[i]}
	})
}
