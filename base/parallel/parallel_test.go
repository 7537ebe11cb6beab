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

package parallel

import (
	"context"
	"testing"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
)

func rangeInt(n int) []int {
	a := make([]int, n)
	for i := range a {
		a[i] = i
	}
	return a
}

func TestParallel(t *testing.T) {
	a := rangeInt(10000)
	b := make([]int, len(a))
	workerIds := make([]int, len(a))
	// multiple threads
	err := Parallel(context.Background(), len(a), 4, func(workerId, jobId int) error {
		b[jobId] = a[jobId]
		workerIds[jobId] = workerId
		time.Sleep(time.Microsecond)
		return nil
	})
	assert.NoError(t, err)
	workersSet := mapset.NewSet(workerIds...)
	assert.Equal(t, a, b)
	assert.GreaterOrEqual(t, 4, workersSet.Cardinality())
	assert.Less(t, 1, workersSet.Cardinality())
	// single thread
	err = Parallel(context.Background(), len(a), 1, func(workerId, jobId int) error {
		b[jobId] = a[jobId]
		workerIds[jobId] = workerId
		return nil
	})
	assert.NoError(t, err)
	workersSet = mapset.NewSet(workerIds...)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, workersSet.Cardinality())
}

func TestParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	count := 0
	err := Parallel(ctx, 100, 1, func(workerId, jobId int) error {
		count++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, count)
}

func TestBatchParallel(t *testing.T) {
	a := rangeInt(10000)
	b := make([]int, len(a))
	// multiple threads
	err := BatchParallel(context.Background(), len(a), 4, 64, func(workerId, beginJobId, endJobId int) error {
		for jobId := beginJobId; jobId < endJobId; jobId++ {
			b[jobId] = a[jobId]
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, a, b)
	// single thread
	b = make([]int, len(a))
	err = BatchParallel(context.Background(), len(a), 1, 64, func(workerId, beginJobId, endJobId int) error {
		for jobId := beginJobId; jobId < endJobId; jobId++ {
			b[jobId] = a[jobId]
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBatchParallelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := BatchParallel(ctx, 100, 1, 10, func(workerId, beginJobId, endJobId int) error {
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplit(t *testing.T) {
	a := []int{1, 2, 3, 4, 5}
	chunks := Split(a, 3)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)
	chunks = Split(a, 7)
	assert.Equal(t, [][]int{{1}, {2}, {3}, {4}, {5}}, chunks)
}
