package cluster

// agglomerate partitions n items by average-linkage agglomerative
// clustering over a precomputed distance matrix, merging until the closest
// pair of clusters sits further apart than cutoff. It returns a cluster
// label per item, labels numbered from 0 in order of first appearance.
func agglomerate(dist [][]float64, cutoff float64) []int {
	n := len(dist)
	if n == 0 {
		return nil
	}

	// members[i] lists the items in cluster i; inactive clusters are nil
	members := make([][]int, n)
	for i := range members {
		members[i] = []int{i}
	}
	active := n

	for active > 1 {
		bi, bj := -1, -1
		best := 0.0
		for i := 0; i < n; i++ {
			if members[i] == nil {
				continue
			}
			for j := i + 1; j < n; j++ {
				if members[j] == nil {
					continue
				}
				d := linkage(dist, members[i], members[j])
				if bi == -1 || d < best {
					best = d
					bi, bj = i, j
				}
			}
		}
		if best > cutoff {
			break
		}
		members[bi] = append(members[bi], members[bj]...)
		members[bj] = nil
		active--
	}

	// assign labels in item order so cluster 0 contains item 0
	labels := make([]int, n)
	assigned := make(map[int]int)
	for item := 0; item < n; item++ {
		root := findCluster(members, item)
		if _, ok := assigned[root]; !ok {
			assigned[root] = len(assigned)
		}
		labels[item] = assigned[root]
	}
	return labels
}

// linkage computes the average pairwise distance between two clusters.
func linkage(dist [][]float64, a, b []int) float64 {
	sum := 0.0
	for _, i := range a {
		for _, j := range b {
			sum += dist[i][j]
		}
	}
	return sum / float64(len(a)*len(b))
}

func findCluster(members [][]int, item int) int {
	for idx, m := range members {
		for _, it := range m {
			if it == item {
				return idx
			}
		}
	}
	return -1
}
