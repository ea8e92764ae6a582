package ranker

import (
	"math"
	"regexp"
	"strconv"
	"time"
)

var pyverRE = regexp.MustCompile(`^\s*(\d+)\.(\d+)`)

// clamp01 restricts v to [0,1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// skeletonFeature is skeleton_similarity(query, candidate).
func skeletonFeature(querySkeleton, candSkeleton string) float64 {
	return skeletonSimilarity(querySkeleton, candSkeleton)
}

// vectorFeature clamps the coordinator-supplied cosine similarity.
func vectorFeature(vectorSimilarity float64) float64 {
	return clamp01(vectorSimilarity)
}

// recencyFeature is 0.5^(Δdays/half_life_days), never negative: a candidate
// from the future (Δdays < 0) is treated as Δdays = 0, i.e. maximally
// recent, rather than penalized.
func recencyFeature(queryTS, candTS time.Time, halfLifeDays float64) float64 {
	deltaDays := queryTS.Sub(candTS).Hours() / 24
	if deltaDays < 0 {
		deltaDays = 0
	}
	return math.Pow(0.5, deltaDays/halfLifeDays)
}

// projectFeature is 1.0 on a working-directory hash match, else the
// Jaccard similarity of the two directory trees.
func projectFeature(queryWorkdirHash, candWorkdirHash string, queryTree, candTree []string) float64 {
	if queryWorkdirHash == candWorkdirHash {
		return 1.0
	}
	return jaccard(queryTree, candTree)
}

// fileFeature is binary: 1.0 on an active-file hash match, else 0.0.
func fileFeature(queryFileHash, candFileHash string) float64 {
	if queryFileHash == candFileHash {
		return 1.0
	}
	return 0.0
}

// packagesFeature is the Jaccard similarity of the two package sets.
func packagesFeature(queryPackages, candPackages []string) float64 {
	return jaccard(queryPackages, candPackages)
}

// parsePyVer extracts the (major, minor) pair from a version string like
// "3.11.5"; a non-matching string parses to (0,0).
func parsePyVer(v string) (major, minor int) {
	m := pyverRE.FindStringSubmatch(v)
	if m == nil {
		return 0, 0
	}
	maj, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	return maj, min
}

// pyverFeature compares major.minor version proximity: 1.0 if both match,
// 0.8 if only major matches, 0.6 otherwise.
func pyverFeature(queryVersion, candVersion string) float64 {
	qMaj, qMin := parsePyVer(queryVersion)
	cMaj, cMin := parsePyVer(candVersion)
	if qMaj == cMaj && qMin == cMin {
		return 1.0
	}
	if qMaj == cMaj {
		return 0.8
	}
	return 0.6
}

// computeFeatures extracts all seven feature channels for one candidate
// against the query.
func computeFeatures(query QueryContext, cand Candidate, halfLifeDays float64) Features {
	return Features{
		Skeleton: skeletonFeature(query.PemSkeleton, cand.PemSkeleton),
		Vector:   vectorFeature(cand.VectorSimilarity),
		Recency:  recencyFeature(query.Timestamp.Time, cand.Timestamp.Time, halfLifeDays),
		Project:  projectFeature(query.WorkingDirectoryHash, cand.WorkingDirectoryHash, query.DirectoryTree, cand.DirectoryTree),
		File:     fileFeature(query.ActiveFileHash, cand.ActiveFileHash),
		Packages: packagesFeature(query.Packages, cand.Packages),
		Pyver:    pyverFeature(query.PythonVersion, cand.PythonVersion),
	}
}
