package utils

import (
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Test inverted bucket probe - find bucket that contains index (efficiently)
		for maxIndex := 10; maxIndex < 500; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			for k := 0; k < maxIndex; k++ {
				tryCount, bn, min, max := pm.getBucketWithTryCount(k)
				mmin, mmax := pm.GetBucketRange(bn)
				assert.True(t, k >= min && k < max && min == mmin && max == mmax && tryCount <= 1)
				bn2, _, _ := pm.GetBucket(k)
				assert.Equal(t, bn, bn2)
			}
		}
	}
	{ // Range visits every index exactly once
		for _, np := range []int{1, 3, 8} {
			var (
				pm     = NewPartitionMap(np, 101)
				visits = make([]int32, 101)
				calls  int32
			)
			pm.Range(func(_, kMin, kMax int) {
				atomic.AddInt32(&calls, 1)
				for k := kMin; k < kMax; k++ {
					atomic.AddInt32(&visits[k], 1)
				}
			})
			for k := range visits {
				assert.Equal(t, int32(1), visits[k])
			}
			assert.Equal(t, int32(np), calls)
		}
	}
	{
		assert.Contains(t, GetMemUsage(), "Alloc = ")
		assert.Equal(t, 2, FirstNonFinite([]float64{1, 2, math.Inf(-1), math.NaN()}))
		assert.Equal(t, -1, FirstNonFinite([]float64{0, 1}))
	}
	{
		assert.Equal(t, 1, ParallelDegreeFor(4, 2))
		assert.Equal(t, 4, ParallelDegreeFor(4, 100))
		assert.Equal(t, 1, ParallelDegreeFor(-3, 100))
		assert.True(t, ParallelDegreeFor(0, 1<<20) >= 1)
	}
}
