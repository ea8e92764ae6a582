package ranker

import (
	"testing"
	"time"
)

func TestRecencyMonotonicity(t *testing.T) {
	query := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	older := query.AddDate(0, 0, -10)
	newer := query.AddDate(0, 0, -2)

	halfLives := []float64{0.5, 1, 7, 14, 30, 365}
	for _, hl := range halfLives {
		rOld := recencyFeature(query, older, hl)
		rNew := recencyFeature(query, newer, hl)
		if rNew < rOld {
			t.Fatalf("half_life=%v: expected newer candidate recency >= older, got newer=%v older=%v", hl, rNew, rOld)
		}
	}
}

func TestRecencyFutureCandidateClampedToZeroDelta(t *testing.T) {
	query := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	future := query.AddDate(0, 0, 5)
	if got := recencyFeature(query, future, 14); got != 1.0 {
		t.Fatalf("expected recency 1.0 for a candidate from the future, got %v", got)
	}
}

func TestProjectFeatureWorkdirMatch(t *testing.T) {
	got := projectFeature("W:proj", "W:proj", []string{"a"}, []string{"b"})
	if got != 1.0 {
		t.Fatalf("expected 1.0 on workdir hash match, got %v", got)
	}
}

func TestProjectFeatureFallsBackToJaccard(t *testing.T) {
	got := projectFeature("W:a", "W:b", []string{"main.py", "util.py"}, []string{"main.py"})
	want := 0.5
	if got != want {
		t.Fatalf("expected jaccard fallback %v, got %v", want, got)
	}
}

func TestFileFeatureBinary(t *testing.T) {
	if got := fileFeature("H:main.py", "H:main.py"); got != 1.0 {
		t.Fatalf("expected match to be 1.0, got %v", got)
	}
	if got := fileFeature("", ""); got != 1.0 {
		t.Fatalf("expected two empty hashes to match, got %v", got)
	}
	if got := fileFeature("H:a", "H:b"); got != 0.0 {
		t.Fatalf("expected mismatch to be 0.0, got %v", got)
	}
}

func TestPyverFeature(t *testing.T) {
	cases := []struct {
		q, c string
		want float64
	}{
		{"3.11.5", "3.11.5", 1.0},
		{"3.11.5", "3.11.4", 1.0},
		{"3.11.5", "3.10.0", 0.8},
		{"3.11.5", "2.7.18", 0.6},
		{"not-a-version", "3.11.5", 0.6},
	}
	for _, c := range cases {
		if got := pyverFeature(c.q, c.c); got != c.want {
			t.Fatalf("pyverFeature(%q,%q): expected %v, got %v", c.q, c.c, c.want, got)
		}
	}
}

func TestParsePyVerNonMatching(t *testing.T) {
	maj, min := parsePyVer("unknown")
	if maj != 0 || min != 0 {
		t.Fatalf("expected (0,0) for non-matching version string, got (%d,%d)", maj, min)
	}
}

func TestVectorFeatureClamps(t *testing.T) {
	if got := vectorFeature(1.5); got != 1.0 {
		t.Fatalf("expected clamp to 1.0, got %v", got)
	}
	if got := vectorFeature(-0.5); got != 0.0 {
		t.Fatalf("expected clamp to 0.0, got %v", got)
	}
}
