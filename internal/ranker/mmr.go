package ranker

import "sort"

// candidateSimilarity is the inter-candidate similarity MMR trades score
// against. An empty activeFileHash never matches another empty one.
func candidateSimilarity(a, b scored) float64 {
	if a.candidate.ActiveFileHash != "" && a.candidate.ActiveFileHash == b.candidate.ActiveFileHash {
		return 1.0
	}
	if normalize(a.candidate.PemSkeleton) == normalize(b.candidate.PemSkeleton) {
		return 0.8
	}
	return jaccard(a.candidate.Packages, b.candidate.Packages)
}

// mmrSelect greedily picks up to k items trading off score against
// similarity to the items already selected, then returns the selection
// sorted by score descending.
func mmrSelect(items []scored, k int, lambda float64) []scored {
	kPrime := k
	if len(items) < kPrime {
		kPrime = len(items)
	}
	if kPrime <= 0 {
		return nil
	}

	remaining := make([]scored, len(items))
	copy(remaining, items)

	selected := make([]scored, 0, kPrime)

	bestIdx := 0
	for i, it := range remaining {
		if it.score > remaining[bestIdx].score {
			bestIdx = i
		}
	}
	selected = append(selected, remaining[bestIdx])
	remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)

	for len(selected) < kPrime {
		bestIdx = -1
		bestValue := 0.0
		for i, candidate := range remaining {
			maxSim := 0.0
			for _, sel := range selected {
				if sim := candidateSimilarity(candidate, sel); sim > maxSim {
					maxSim = sim
				}
			}
			value := lambda*candidate.score - (1-lambda)*maxSim
			if bestIdx == -1 || value > bestValue {
				bestIdx = i
				bestValue = value
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].score > selected[j].score
	})

	return selected
}
