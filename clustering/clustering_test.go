// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package clustering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type point struct{ x, y int }

type pointCost struct{}

func (pointCost) CostFor(value point, centroid point) uint32 {
	dx := value.x - centroid.x
	dy := value.y - centroid.y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return uint32(dx + dy)
}

func TestClusterTrivial(t *testing.T) {
	values := []point{{0, 0}}
	clusters := MakeClusters[point, point](pointCost{}, values, values, 1)

	require.Len(t, clusters, 1)
	assert.Equal(t, 0, clusters[0].Centroid)
	assert.Equal(t, []int{0}, clusters[0].Values)
}

func TestClusterPoints(t *testing.T) {
	values := []point{
		{0, 0}, {1, 0}, {0, 1},
		{50, 50}, {51, 50}, {50, 51},
	}

	clusters := MakeClusters[point, point](pointCost{}, values, values, 2)
	require.Len(t, clusters, 2)

	var total int
	seen := map[int]bool{}
	for _, c := range clusters {
		for _, v := range c.Values {
			assert.False(t, seen[v], "value %d assigned to more than one cluster", v)
			seen[v] = true
			total++
		}
	}
	assert.Len(t, seen, len(values))
	assert.Equal(t, len(values), total)

	for _, c := range clusters {
		for _, v := range c.Values {
			if v < 3 {
				assert.Less(t, c.Centroid, 3, "low cluster got a far centroid")
			} else {
				assert.GreaterOrEqual(t, c.Centroid, 3, "high cluster got a near centroid")
			}
		}
	}
}

func TestClusterNoClustersRequested(t *testing.T) {
	values := []point{{0, 0}, {1, 1}}
	clusters := MakeClusters[point, point](pointCost{}, values, values, 0)
	assert.Nil(t, clusters)
}

func TestClusterEmptyValues(t *testing.T) {
	centroids := []point{{0, 0}}
	clusters := MakeClusters[point, point](pointCost{}, centroids, nil, 1)
	assert.Nil(t, clusters)
}
