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

package dataset

import (
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/blend/config"
	"github.com/juju/errors"
)

// Item stores meta data about item. Labels is the unordered set of feature
// tags. Year is scalar meta data and takes no part in similarity math.
type Item struct {
	ItemId string
	Labels []string
	Year   int
}

// Dataset is the in-memory rating store. Users and items keep their insertion
// order, which is the documented tie-breaking order everywhere downstream.
// Mutations bump the version so that fitted models and similarity caches can
// detect staleness.
type Dataset struct {
	scale     config.ScaleConfig
	items     []Item
	itemIndex map[string]int
	users     []string
	userIndex map[string]int
	ratings   []map[string]float64
	tags      mapset.Set[string]
	vocab     []string
	version   uint64
}

func NewDataset(scale config.ScaleConfig) *Dataset {
	return &Dataset{
		scale:     scale,
		itemIndex: make(map[string]int),
		userIndex: make(map[string]int),
		tags:      mapset.NewSet[string](),
	}
}

func (d *Dataset) Scale() config.ScaleConfig {
	return d.scale
}

// Version returns the mutation epoch of the store.
func (d *Dataset) Version() uint64 {
	return d.version
}

// AddItem registers an item in the catalog. Adding an existing item overwrites
// its meta data. New tags extend the vocabulary.
func (d *Dataset) AddItem(item Item) {
	if index, exist := d.itemIndex[item.ItemId]; exist {
		d.items[index] = item
	} else {
		d.itemIndex[item.ItemId] = len(d.items)
		d.items = append(d.items, item)
	}
	dirty := false
	for _, tag := range item.Labels {
		if d.tags.Add(tag) {
			dirty = true
		}
	}
	if dirty {
		d.vocab = d.tags.ToSlice()
		sort.Strings(d.vocab)
	}
	d.version++
}

// Item looks up an item by id.
func (d *Dataset) Item(itemId string) (Item, bool) {
	if index, exist := d.itemIndex[itemId]; exist {
		return d.items[index], true
	}
	return Item{}, false
}

// Items returns the catalog in insertion order. The returned slice is shared
// and must not be modified.
func (d *Dataset) Items() []Item {
	return d.items
}

// Users returns user ids in insertion order.
func (d *Dataset) Users() []string {
	return d.users
}

func (d *Dataset) CountItems() int {
	return len(d.items)
}

func (d *Dataset) CountUsers() int {
	return len(d.users)
}

func (d *Dataset) CountRatings() int {
	count := 0
	for _, ratings := range d.ratings {
		count += len(ratings)
	}
	return count
}

// AddRating inserts a rating or overwrites an existing one. Ratings against
// unknown items and scores outside the scale are rejected.
func (d *Dataset) AddRating(userId, itemId string, score float64) error {
	if userId == "" {
		return errors.NotValidf("empty user id")
	}
	if _, exist := d.itemIndex[itemId]; !exist {
		return errors.NotValidf("unknown item %q", itemId)
	}
	if math.IsNaN(score) || score < d.scale.Min || score > d.scale.Max {
		return errors.NotValidf("score %v outside scale [%v, %v]", score, d.scale.Min, d.scale.Max)
	}
	index, exist := d.userIndex[userId]
	if !exist {
		index = len(d.users)
		d.userIndex[userId] = index
		d.users = append(d.users, userId)
		d.ratings = append(d.ratings, make(map[string]float64))
	}
	d.ratings[index][itemId] = score
	d.version++
	return nil
}

// GetRating returns the stored rating for (user, item).
func (d *Dataset) GetRating(userId, itemId string) (float64, bool) {
	if index, exist := d.userIndex[userId]; exist {
		score, exist := d.ratings[index][itemId]
		return score, exist
	}
	return 0, false
}

// RemoveRating deletes a rating and reports whether it existed.
func (d *Dataset) RemoveRating(userId, itemId string) bool {
	if index, exist := d.userIndex[userId]; exist {
		if _, exist := d.ratings[index][itemId]; exist {
			delete(d.ratings[index], itemId)
			d.version++
			return true
		}
	}
	return false
}

// UserRatings returns the item-to-score map of a user. The returned map is
// shared and must not be modified.
func (d *Dataset) UserRatings(userId string) map[string]float64 {
	if index, exist := d.userIndex[userId]; exist {
		return d.ratings[index]
	}
	return nil
}

// ItemRaters returns the users who rated an item, in user insertion order.
func (d *Dataset) ItemRaters(itemId string) []string {
	var raters []string
	for index, userId := range d.users {
		if _, exist := d.ratings[index][itemId]; exist {
			raters = append(raters, userId)
		}
	}
	return raters
}

// UserMean returns the mean rating of a user. The second return value is false
// for users without ratings. Summation follows catalog order so that the result
// is reproducible.
func (d *Dataset) UserMean(userId string) (float64, bool) {
	index, exist := d.userIndex[userId]
	if !exist || len(d.ratings[index]) == 0 {
		return 0, false
	}
	sum, count := 0.0, 0.0
	for _, item := range d.items {
		if score, exist := d.ratings[index][item.ItemId]; exist {
			sum += score
			count++
		}
	}
	return sum / count, true
}

// Copy returns an independent deep copy of the store.
func (d *Dataset) Copy() *Dataset {
	return d.CopyWithout("", "")
}

// CopyWithout returns an independent deep copy of the store with a single
// rating excluded. Leave-one-out evaluation predicts against such copies so
// that the shared store is never mutated.
func (d *Dataset) CopyWithout(userId, itemId string) *Dataset {
	c := NewDataset(d.scale)
	for _, item := range d.items {
		c.AddItem(item)
	}
	for index, u := range d.users {
		for _, item := range d.items {
			if score, exist := d.ratings[index][item.ItemId]; exist {
				if u == userId && item.ItemId == itemId {
					continue
				}
				if err := c.AddRating(u, item.ItemId, score); err != nil {
					// Source ratings are validated, a copy cannot fail.
					panic(err)
				}
			}
		}
	}
	return c
}

// Vocabulary returns the sorted global tag vocabulary. The returned slice is
// shared and must not be modified.
func (d *Dataset) Vocabulary() []string {
	return d.vocab
}

// FeatureVector returns the binary feature vector of an item over the sorted
// vocabulary. Unknown items map to the zero vector.
func (d *Dataset) FeatureVector(itemId string) []float32 {
	if item, exist := d.Item(itemId); exist {
		return d.VectorForLabels(item.Labels)
	}
	return make([]float32, len(d.vocab))
}

// VectorForLabels builds a feature vector from an arbitrary tag set. Tags
// outside the vocabulary are ignored.
func (d *Dataset) VectorForLabels(labels []string) []float32 {
	vec := make([]float32, len(d.vocab))
	for _, label := range labels {
		if index := sort.SearchStrings(d.vocab, label); index < len(d.vocab) && d.vocab[index] == label {
			vec[index] = 1
		}
	}
	return vec
}
