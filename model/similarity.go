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
	"math"
	"sort"

	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/stat"
)

// Pearson computes the Pearson correlation coefficient between two rating
// vectors over the intersection of their rated items. Fewer than 2 co-rated
// items or zero variance on either side yields 0, the neutral similarity.
// Keys are visited in sorted order so the result is reproducible.
func Pearson(a, b map[string]float64) float64 {
	common := make([]string, 0, len(a))
	for itemId := range a {
		if _, exist := b[itemId]; exist {
			common = append(common, itemId)
		}
	}
	if len(common) < 2 {
		return 0
	}
	sort.Strings(common)
	x := make([]float64, len(common))
	y := make([]float64, len(common))
	for i, itemId := range common {
		x[i] = a[itemId]
		y[i] = b[itemId]
	}
	meanX := stat.Mean(x, nil)
	meanY := stat.Mean(y, nil)
	// Mean-centered cosine
	m, n, l := .0, .0, .0
	for i := range common {
		ratingX := x[i] - meanX
		ratingY := y[i] - meanY
		m += ratingX * ratingX
		n += ratingY * ratingY
		l += ratingX * ratingY
	}
	if m == 0 || n == 0 {
		return 0
	}
	return l / math.Sqrt(m*n)
}

// Cosine computes the cosine similarity between a pair of feature vectors.
// Zero-norm input yields 0.
func Cosine(a, b []float32) float32 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	m, n, l := float32(0), float32(0), float32(0)
	for i := 0; i < length; i++ {
		m += a[i] * a[i]
		n += b[i] * b[i]
		l += a[i] * b[i]
	}
	if m == 0 || n == 0 {
		return 0
	}
	return l / (math32.Sqrt(m) * math32.Sqrt(n))
}
