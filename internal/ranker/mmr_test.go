package ranker

import "testing"

func TestMMRSelectRespectsK(t *testing.T) {
	items := []scored{
		{id: "a", score: 0.9, candidate: Candidate{ActiveFileHash: "H:a", PemSkeleton: "err a", Packages: []string{"numpy"}}},
		{id: "b", score: 0.8, candidate: Candidate{ActiveFileHash: "H:b", PemSkeleton: "err b", Packages: []string{"pandas"}}},
		{id: "c", score: 0.7, candidate: Candidate{ActiveFileHash: "H:c", PemSkeleton: "err c", Packages: []string{"scipy"}}},
	}

	selected := mmrSelect(items, 2, 0.7)
	if len(selected) != 2 {
		t.Fatalf("expected 2 selected items, got %d", len(selected))
	}
	if selected[0].id != "a" {
		t.Fatalf("expected highest scorer to be selected first, got %s", selected[0].id)
	}
}

func TestMMRSelectPrefersDiversityOverNearTie(t *testing.T) {
	items := []scored{
		{id: "best", score: 1.0, candidate: Candidate{ActiveFileHash: "H:shared", PemSkeleton: "err x"}},
		{id: "dup", score: 0.99, candidate: Candidate{ActiveFileHash: "H:shared", PemSkeleton: "err x"}},
		{id: "diverse", score: 0.6, candidate: Candidate{ActiveFileHash: "H:other", PemSkeleton: "err y"}},
	}

	selected := mmrSelect(items, 2, 0.5)
	ids := map[string]bool{}
	for _, s := range selected {
		ids[s.id] = true
	}
	if !ids["best"] {
		t.Fatalf("expected highest scorer to always be selected first")
	}
	if !ids["diverse"] {
		t.Fatalf("expected MMR to prefer the diverse item over the near-duplicate at lambda=0.5")
	}
}

func TestCandidateSimilarityEmptyFileHashesDontMatch(t *testing.T) {
	a := scored{candidate: Candidate{ActiveFileHash: "", PemSkeleton: "x"}}
	b := scored{candidate: Candidate{ActiveFileHash: "", PemSkeleton: "y"}}
	if got := candidateSimilarity(a, b); got == 1.0 {
		t.Fatalf("expected two empty file hashes to not be treated as matching")
	}
}

func TestMMRSelectHandlesFewerItemsThanK(t *testing.T) {
	items := []scored{
		{id: "only", score: 0.5, candidate: Candidate{ActiveFileHash: "H:a"}},
	}
	selected := mmrSelect(items, 5, 0.7)
	if len(selected) != 1 {
		t.Fatalf("expected 1 item when fewer candidates than k, got %d", len(selected))
	}
}
