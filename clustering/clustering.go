// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package clustering implements k-means–style model clustering (spec.md
// §4.5): selecting a small subset of candidate "centroid" models that best
// covers a set of sequences, under a caller-provided cost function.
//
// Grounded on original_source/idencomp/src/clustering.rs. The Rust source
// seeds its Xoshiro256++ PRNG with a fixed integer (404); this module uses
// math/rand/v2's PCG seeded the same way (see DESIGN.md Open Question
// resolution on clustering determinism — not bit-identical to the Rust
// stream, but deterministic given this module's own PRNG).
package clustering

import (
	"math/rand/v2"
	"sort"
)

// clusterSeed is the fixed seed used throughout this module so that
// clustering output is deterministic given the same centroid/value inputs.
const clusterSeed = 404

// CostCalculator computes the cost of encoding/representing value under
// centroid. Lower is better (spec.md §4.5: "bytes produced when encoding
// this sequence with this model").
type CostCalculator[Value, Centroid any] interface {
	CostFor(value Value, centroid Centroid) uint32
}

// Cluster is one output cluster: the index (into the caller's centroid
// slice) of its elected centroid, and the indices (into the caller's value
// slice) of its members.
type Cluster struct {
	Centroid int
	Values   []int
}

// MakeClusters implements swap-resistant k-means seeding plus iterate-to-
// convergence assignment (spec.md §4.5). Centroids and values are addressed
// by index so callers needn't make them comparable or hashable.
func MakeClusters[Value, Centroid any](calc CostCalculator[Value, Centroid], centroids []Centroid, values []Value, numClusters int) []Cluster {
	if numClusters == 0 || len(values) == 0 {
		return nil
	}
	if numClusters > len(centroids) {
		numClusters = len(centroids)
	}
	if numClusters == 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(0, clusterSeed))

	bestCentroids := make([]int, 0, numClusters)
	centroidsAvailable := make([]bool, len(centroids))
	for i := range centroidsAvailable {
		centroidsAvailable[i] = true
	}
	valueClusters := make([]int, len(values))

	for _, vIdx := range chooseMultiple(rng, len(values), numClusters) {
		best := bestCentroidFor(calc, centroids, centroidsAvailable, []Value{values[vIdx]})
		bestCentroids = append(bestCentroids, best)
		centroidsAvailable[best] = false
	}

	for {
		clusterChanges := 0
		centroidChanges := 0

		for valueIndex, value := range values {
			newClusterIndex := 0
			bestCost := uint32(0)
			for clusterIndex, centroidIndex := range bestCentroids {
				cost := calc.CostFor(value, centroids[centroidIndex])
				if clusterIndex == 0 || cost < bestCost {
					bestCost = cost
					newClusterIndex = clusterIndex
				}
			}
			if valueClusters[valueIndex] != newClusterIndex {
				valueClusters[valueIndex] = newClusterIndex
				clusterChanges++
			}
		}

		for i := range centroidsAvailable {
			centroidsAvailable[i] = true
		}
		for clusterIndex := range bestCentroids {
			members := clusterValues(valueClusters, clusterIndex)
			memberValues := make([]Value, len(members))
			for i, m := range members {
				memberValues[i] = values[m]
			}
			best := bestCentroidFor(calc, centroids, centroidsAvailable, memberValues)
			if bestCentroids[clusterIndex] != best {
				bestCentroids[clusterIndex] = best
				centroidChanges++
			}
			centroidsAvailable[best] = false
		}

		if clusterChanges == 0 && centroidChanges == 0 {
			break
		}
	}

	clusters := make([]Cluster, len(bestCentroids))
	for clusterIndex, centroidIndex := range bestCentroids {
		clusters[clusterIndex] = Cluster{Centroid: centroidIndex, Values: clusterValues(valueClusters, clusterIndex)}
	}
	return clusters
}

func clusterValues(valueClusters []int, clusterIndex int) []int {
	var out []int
	for i, c := range valueClusters {
		if c == clusterIndex {
			out = append(out, i)
		}
	}
	return out
}

func bestCentroidFor[Value, Centroid any](calc CostCalculator[Value, Centroid], centroids []Centroid, available []bool, values []Value) int {
	costs := make([]uint64, len(centroids))
	for _, v := range values {
		for i, c := range centroids {
			costs[i] += uint64(calc.CostFor(v, c))
		}
	}

	best := -1
	var bestCost uint64
	for i, ok := range available {
		if !ok {
			continue
		}
		if best == -1 || costs[i] < bestCost {
			best = i
			bestCost = costs[i]
		}
	}
	if best == -1 {
		panic("clustering: no available centroid")
	}
	return best
}

// chooseMultiple samples n distinct indices in [0, total) without
// replacement, mirroring Rust's SliceRandom::choose_multiple.
func chooseMultiple(rng *rand.Rand, total, n int) []int {
	if n >= total {
		idx := make([]int, total)
		for i := range idx {
			idx[i] = i
		}
		rng.Shuffle(total, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		return idx
	}

	idx := make([]int, total)
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(total, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	out := idx[:n]
	sort.Ints(out)
	return out
}
