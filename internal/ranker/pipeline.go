package ranker

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"
)

// scored is the internal per-candidate result of the scoring stage: its
// feature breakdown, final score (or the filteredScore sentinel), and a
// back-reference to the candidate it was computed from.
type scored struct {
	id        string
	features  Features
	score     float64
	candidate Candidate
}

const (
	reasonNoCandidates = "no_candidates"
	reasonAllFiltered  = "all_filtered"
	reasonAllDeduped   = "all_deduped"
	reasonLowConfidence = "low_confidence"
)

// Rank runs the full pipeline: score, filter, dedupe, confidence floor,
// MMR selection, reason building, response assembly. It returns an error
// only if req fails validation; every other outcome, including abstention,
// is a normal *RankResponse.
func Rank(ctx context.Context, req RankRequest) (*RankResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if len(req.Candidates) == 0 {
		return abstainResponse(reasonNoCandidates), nil
	}

	scoredItems, err := scoreAll(ctx, req)
	if err != nil {
		return nil, err
	}

	kept := make([]scored, 0, len(scoredItems))
	for _, s := range scoredItems {
		if s.score != filteredScore {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return abstainResponse(reasonAllFiltered), nil
	}

	deduped := dedupeScored(kept, req.Params)
	if len(deduped) == 0 {
		return abstainResponse(reasonAllDeduped), nil
	}

	if deduped[0].score < req.Params.ConfidenceFloor {
		return abstainResponse(reasonLowConfidence), nil
	}

	selected := mmrSelect(deduped, req.Params.K, req.Params.MMRLambda)

	items := make([]RankedItem, 0, len(selected))
	for _, s := range selected {
		items = append(items, RankedItem{
			ID:       s.id,
			Score:    round6(s.score),
			Features: roundFeatures(s.features),
			Reasons:  reasonsFor(s, req.Query),
		})
	}

	best := items[0]
	alternates := items[1:]
	if len(alternates) > req.Params.K-1 {
		alternates = alternates[:req.Params.K-1]
	}

	return &RankResponse{
		Abstain:    false,
		Reason:     nil,
		Best:       &best,
		Alternates: alternates,
	}, nil
}

// scoreAll extracts features and scores every candidate concurrently: each
// candidate's computation is pure and independent, so the only ordering
// guarantees required are the three explicit sort points further down the
// pipeline, not the order scoring itself completes in.
func scoreAll(ctx context.Context, req RankRequest) ([]scored, error) {
	results := make([]scored, len(req.Candidates))
	informative := skeletonInformative(req.Query.PemSkeleton)

	g, _ := errgroup.WithContext(ctx)
	for i := range req.Candidates {
		i := i
		g.Go(func() error {
			cand := req.Candidates[i]
			features := computeFeatures(req.Query, cand, req.Params.RecencyHalfLifeDays)
			workdirMatches := req.Query.WorkingDirectoryHash == cand.WorkingDirectoryHash
			score := scoreCandidate(features, workdirMatches, cand.ResolutionDepth, req.Params, informative)
			results[i] = scored{
				id:        cand.ID,
				features:  features,
				score:     score,
				candidate: cand,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func abstainResponse(reason string) *RankResponse {
	r := reason
	return &RankResponse{
		Abstain:    true,
		Reason:     &r,
		Best:       nil,
		Alternates: []RankedItem{},
	}
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func roundFeatures(f Features) Features {
	return Features{
		Skeleton: round6(f.Skeleton),
		Vector:   round6(f.Vector),
		Recency:  round6(f.Recency),
		Project:  round6(f.Project),
		File:     round6(f.File),
		Packages: round6(f.Packages),
		Pyver:    round6(f.Pyver),
	}
}
