package ranker

// filteredScore is the sentinel assigned to a candidate that fails the hard
// skeleton filter; it is never a valid member of [0,1].
const filteredScore = -1.0

// baseWeights are the fixed per-channel weights before reliability
// multipliers and renormalization.
var baseWeights = map[string]float64{
	"skeleton": 0.40,
	"vector":   0.35,
	"recency":  0.10,
	"project":  0.07,
	"file":     0.03,
	"packages": 0.03,
	"pyver":    0.02,
}

var channelOrder = []string{"skeleton", "vector", "recency", "project", "file", "packages", "pyver"}

// reliabilityMultipliers computes the per-candidate scalar applied to each
// channel's base weight before renormalization.
func reliabilityMultipliers(f Features, workdirMatches bool) map[string]float64 {
	return map[string]float64{
		"skeleton": skeletonReliability(f.Skeleton),
		"vector":   1.0,
		"recency":  1.0,
		"project":  projectReliability(workdirMatches, f.Project),
		"file":     1.0,
		"packages": 1.0,
		"pyver":    1.0,
	}
}

func skeletonReliability(skeleton float64) float64 {
	switch {
	case skeleton >= 0.999:
		return 1.4
	case skeleton >= 0.9:
		return 1.2
	case skeleton >= 0.8:
		return 1.0
	case skeleton >= 0.6:
		return 0.7
	default:
		return 0.5
	}
}

func projectReliability(workdirMatches bool, project float64) float64 {
	if workdirMatches || project >= 0.5 {
		return 1.2
	}
	return 0.9
}

// effectiveWeights multiplies base weights by reliability multipliers and
// renormalizes so the seven channels sum to 1. If the weighted sum is zero,
// it falls back to uniform 1/7 weights rather than dividing by zero.
func effectiveWeights(mult map[string]float64) map[string]float64 {
	weighted := make(map[string]float64, len(channelOrder))
	sum := 0.0
	for _, ch := range channelOrder {
		w := baseWeights[ch] * mult[ch]
		weighted[ch] = w
		sum += w
	}

	out := make(map[string]float64, len(channelOrder))
	if sum <= 0 {
		uniform := 1.0 / float64(len(channelOrder))
		for _, ch := range channelOrder {
			out[ch] = uniform
		}
		return out
	}

	for _, ch := range channelOrder {
		out[ch] = weighted[ch] / sum
	}
	return out
}

// depthToSuccess maps resolutionDepth to the success-bonus contribution.
func depthToSuccess(depth *int) float64 {
	if depth == nil {
		return 0.0
	}
	switch {
	case *depth >= 2:
		return 1.0
	case *depth == 1:
		return 0.5
	default:
		return 0.0
	}
}

func featureValue(f Features, channel string) float64 {
	switch channel {
	case "skeleton":
		return f.Skeleton
	case "vector":
		return f.Vector
	case "recency":
		return f.Recency
	case "project":
		return f.Project
	case "file":
		return f.File
	case "packages":
		return f.Packages
	case "pyver":
		return f.Pyver
	default:
		return 0
	}
}

// scoreCandidate combines features into a single score in [0,1], or returns
// the filteredScore sentinel if the hard skeleton filter trips.
func scoreCandidate(f Features, workdirMatches bool, resolutionDepth *int, params RankParams, skeletonInformativeQuery bool) float64 {
	if f.Skeleton < params.SkeletonFilterThreshold && skeletonInformativeQuery {
		return filteredScore
	}

	mult := reliabilityMultipliers(f, workdirMatches)
	weights := effectiveWeights(mult)

	score := 0.0
	for _, ch := range channelOrder {
		score += weights[ch] * featureValue(f, ch)
	}
	score += params.SuccessBonusAlpha * depthToSuccess(resolutionDepth)

	return clamp01(score)
}
