package ranker

import (
	gconfig "github.com/Laisky/go-config/v2"
)

// DefaultRankParams returns the documented "clear winner" tuning defaults.
// A request must still supply every RankParams field explicitly; these
// defaults are never applied to a request, and the serve command only
// reports them in its startup log.
func DefaultRankParams() RankParams {
	return RankParams{
		K:                       3,
		MMRLambda:               0.7,
		ConfidenceFloor:         0.5,
		RecencyHalfLifeDays:     14.0,
		SkeletonFilterThreshold: 0.6,
		AllowRepeatDepth:        3,
		AllowRepeatMinHours:     24.0,
		SuccessBonusAlpha:       0.03,
	}
}

// LoadDefaultRankParamsFromConfig overlays any `settings.ranker.*` keys
// found in the loaded configuration file on top of DefaultRankParams, so
// operators can pin different documented defaults without touching the
// binary.
func LoadDefaultRankParamsFromConfig() RankParams {
	params := DefaultRankParams()

	return RankParams{
		K:                       intFromConfig("settings.ranker.k", params.K),
		MMRLambda:               floatFromConfig("settings.ranker.mmr_lambda", params.MMRLambda),
		ConfidenceFloor:         floatFromConfig("settings.ranker.confidence_floor", params.ConfidenceFloor),
		RecencyHalfLifeDays:     floatFromConfig("settings.ranker.recency_half_life_days", params.RecencyHalfLifeDays),
		SkeletonFilterThreshold: floatFromConfig("settings.ranker.skeleton_filter_threshold", params.SkeletonFilterThreshold),
		AllowRepeatDepth:        intFromConfig("settings.ranker.allow_repeat_depth", params.AllowRepeatDepth),
		AllowRepeatMinHours:     floatFromConfig("settings.ranker.allow_repeat_min_hours", params.AllowRepeatMinHours),
		SuccessBonusAlpha:       floatFromConfig("settings.ranker.success_bonus_alpha", params.SuccessBonusAlpha),
	}
}

// intFromConfig reads an integer from config with fallback.
func intFromConfig(key string, def int) int {
	value := gconfig.S.Get(key)
	switch typed := value.(type) {
	case nil:
		return def
	case int:
		return typed
	case int64:
		return int(typed)
	case float64:
		return int(typed)
	default:
		return def
	}
}

// floatFromConfig reads a float from config with fallback.
func floatFromConfig(key string, def float64) float64 {
	value := gconfig.S.Get(key)
	switch typed := value.(type) {
	case nil:
		return def
	case float64:
		return typed
	case int:
		return float64(typed)
	case int64:
		return float64(typed)
	default:
		return def
	}
}
