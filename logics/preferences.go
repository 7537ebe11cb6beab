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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/blend/base/heap"
	"github.com/gorse-io/blend/dataset"
	"github.com/gorse-io/blend/model"
	"github.com/samber/lo"
)

// ForPreferences recommends items to a new user who declared feature
// preferences but has no ratings yet. Items are ranked by the number of tags
// shared with the declared set, descending; items without overlap are
// excluded. Equal overlaps keep catalog insertion order.
func ForPreferences(data *dataset.Dataset, labels []string, n int) []model.Score {
	declared := mapset.NewSet(labels...)
	filter := heap.NewTopKFilter[string, float64](n)
	for _, item := range data.Items() {
		overlap := declared.Intersect(mapset.NewSet(item.Labels...)).Cardinality()
		if overlap == 0 {
			continue
		}
		filter.Push(item.ItemId, float64(overlap))
	}
	items, scores := filter.PopAll()
	return lo.Map(items, func(itemId string, i int) model.Score {
		return model.Score{Id: itemId, Score: scores[i]}
	})
}
