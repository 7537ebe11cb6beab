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
	"testing"

	"github.com/gorse-io/blend/dataset"
	"github.com/stretchr/testify/assert"
)

func TestForPreferences(t *testing.T) {
	data := dataset.NewDataset(scale)
	data.AddItem(dataset.Item{ItemId: "m0", Labels: []string{"Action", "Sci-Fi", "Thriller"}})
	data.AddItem(dataset.Item{ItemId: "m1", Labels: []string{"Action"}})
	data.AddItem(dataset.Item{ItemId: "m2", Labels: []string{"Romance"}})
	data.AddItem(dataset.Item{ItemId: "m3", Labels: []string{"Sci-Fi", "Action"}})

	scores := ForPreferences(data, []string{"Action", "Sci-Fi"}, 10)
	assert.Len(t, scores, 3)
	assert.Equal(t, "m0", scores[0].Id)
	assert.Equal(t, 2.0, scores[0].Score)
	// equal overlaps keep catalog order
	assert.Equal(t, "m3", scores[1].Id)
	assert.Equal(t, "m1", scores[2].Id)

	// zero-overlap items are excluded
	for _, score := range scores {
		assert.NotEqual(t, "m2", score.Id)
	}

	// truncation
	scores = ForPreferences(data, []string{"Action", "Sci-Fi"}, 1)
	assert.Len(t, scores, 1)
	assert.Equal(t, "m0", scores[0].Id)
}

func TestForPreferencesEmpty(t *testing.T) {
	assert.Empty(t, ForPreferences(dataset.NewDataset(scale), []string{"Action"}, 10))

	data := dataset.NewDataset(scale)
	data.AddItem(dataset.Item{ItemId: "m0", Labels: []string{"Romance"}})
	assert.Empty(t, ForPreferences(data, []string{"Action"}, 10))
	assert.Empty(t, ForPreferences(data, nil, 10))
}
