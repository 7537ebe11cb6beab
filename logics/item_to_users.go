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
	"github.com/gorse-io/blend/base/heap"
	"github.com/gorse-io/blend/dataset"
	"github.com/gorse-io/blend/model"
	"github.com/samber/lo"
)

// ItemToUsers finds target users for a brand-new item described only by its
// feature tags: existing users are ranked by the cosine similarity between
// their preference profile and the item's feature vector, descending. An empty
// store yields an empty result.
func ItemToUsers(data *dataset.Dataset, labels []string, n int) []model.Score {
	vector := data.VectorForLabels(labels)
	cb := model.NewContentBased()
	filter := heap.NewTopKFilter[string, float64](n)
	for _, userId := range data.Users() {
		similarity := model.Cosine(cb.UserProfile(data, userId), vector)
		filter.Push(userId, float64(similarity))
	}
	users, scores := filter.PopAll()
	return lo.Map(users, func(userId string, i int) model.Score {
		return model.Score{Id: userId, Score: scores[i]}
	})
}
