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
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// SimilarityCache memoizes pairwise similarities. Keys are unordered pairs, so
// lookups are symmetric. Entries are scoped to a store version: the whole
// cache is dropped when the underlying ratings change. Self pairs are never
// cached.
type SimilarityCache struct {
	cache   *ttlcache.Cache[string, float64]
	version uint64
}

func NewSimilarityCache(ttl time.Duration) *SimilarityCache {
	return &SimilarityCache{
		cache: ttlcache.New[string, float64](
			ttlcache.WithTTL[string, float64](ttl),
		),
	}
}

func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "\x00" + b
}

// Get returns the cached similarity for the pair under the given store
// version. A version change invalidates all entries.
func (c *SimilarityCache) Get(version uint64, a, b string) (float64, bool) {
	if a == b {
		return 0, false
	}
	if c.version != version {
		c.cache.DeleteAll()
		c.version = version
		return 0, false
	}
	if item := c.cache.Get(pairKey(a, b)); item != nil {
		return item.Value(), true
	}
	return 0, false
}

// Set stores the similarity for the pair under the given store version.
func (c *SimilarityCache) Set(version uint64, a, b string, similarity float64) {
	if a == b {
		return
	}
	if c.version != version {
		c.cache.DeleteAll()
		c.version = version
	}
	c.cache.Set(pairKey(a, b), similarity, ttlcache.DefaultTTL)
}
