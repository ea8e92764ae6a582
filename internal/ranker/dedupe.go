package ranker

import (
	"sort"
)

// dedupKey groups candidates that should be treated as near-duplicates:
// same normalized skeleton and same active-file hash.
func dedupKey(normalizedSkeleton, activeFileHash string) string {
	return normalizedSkeleton + "\x00" + activeFileHash
}

// hoursBetween is the signed number of hours by which a is newer than b:
// positive when a comes after b. The allowed-repeat check only qualifies a
// candidate that is older than the primary, so this must stay directional
// rather than an absolute difference.
func hoursBetween(a, b Timestamp) float64 {
	return a.Time.Sub(b.Time).Hours()
}

// dedupeScored collapses near-duplicate scored candidates, keeping the
// highest-scoring one per group plus at most one allowed repeat, then
// returns the survivors sorted by score descending.
func dedupeScored(items []scored, params RankParams) []scored {
	groups := make(map[string][]scored)
	order := make([]string, 0)

	for _, it := range items {
		key := dedupKey(normalize(it.candidate.PemSkeleton), it.candidate.ActiveFileHash)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], it)
	}

	survivors := make([]scored, 0, len(items))
	for _, key := range order {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].score != group[j].score {
				return group[i].score > group[j].score
			}
			return group[i].candidate.Timestamp.Time.After(group[j].candidate.Timestamp.Time)
		})

		primary := group[0]
		survivors = append(survivors, primary)

		for _, candidate := range group[1:] {
			depth := candidate.candidate.ResolutionDepth
			if depth == nil {
				continue
			}
			if *depth < params.AllowRepeatDepth {
				continue
			}
			if hoursBetween(primary.candidate.Timestamp, candidate.candidate.Timestamp) < params.AllowRepeatMinHours {
				continue
			}
			survivors = append(survivors, candidate)
			break
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].score > survivors[j].score
	})

	return survivors
}
