package ranker

import (
	"fmt"
	"math"
)

// reasonsFor builds the fixed-vocabulary reason tags for one scored item.
func reasonsFor(s scored, query QueryContext) []string {
	reasons := make([]string, 0, 5)

	switch {
	case s.features.Skeleton >= 0.999:
		reasons = append(reasons, "signature match")
	case s.features.Skeleton >= 0.8:
		reasons = append(reasons, "signature similar")
	}

	switch {
	case s.features.File >= 0.999:
		reasons = append(reasons, "same file")
	case s.features.File >= 0.25:
		reasons = append(reasons, "same filetype")
	}

	if s.features.Packages > 0 {
		reasons = append(reasons, "package overlap")
	}

	days := query.Timestamp.Time.Sub(s.candidate.Timestamp.Time).Hours() / 24
	n := int(math.Floor(days))
	if n < 0 {
		n = 0
	}
	reasons = append(reasons, fmt.Sprintf("recent: %dd", n))

	if depthToSuccess(s.candidate.ResolutionDepth) >= 0.5 {
		reasons = append(reasons, "success before")
	}

	return reasons
}
