package ranker

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// naiveTimestampLayouts are tried, in order, when a timestamp string carries
// no UTC offset. A naive timestamp is treated as UTC, never as the machine's
// local zone, so recency scoring stays deterministic across deployments.
var naiveTimestampLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Timestamp wraps time.Time with ISO-8601 decoding that treats a timezone-
// less string as UTC instead of rejecting it.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := parseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func parseTimestamp(s string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return parsed.UTC(), nil
	}
	var lastErr error
	for _, layout := range naiveTimestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return parsed, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, NewErrorf(ErrCodeSchemaViolation, "invalid timestamp %q: %v", s, lastErr)
}

// RankParams are the per-request tuning knobs for the pipeline. Every field
// is required; there is no silent fallback to a server-side default once a
// request is accepted, since the schema requires all of them.
type RankParams struct {
	K                       int     `json:"k"`
	MMRLambda               float64 `json:"mmr_lambda"`
	ConfidenceFloor         float64 `json:"confidence_floor"`
	RecencyHalfLifeDays     float64 `json:"recency_half_life_days"`
	SkeletonFilterThreshold float64 `json:"skeleton_filter_threshold"`
	AllowRepeatDepth        int     `json:"allow_repeat_depth"`
	AllowRepeatMinHours     float64 `json:"allow_repeat_min_hours"`
	SuccessBonusAlpha       float64 `json:"success_bonus_alpha"`
}

// rankParamsWire mirrors RankParams with every field a pointer, so decoding
// can tell a field that was never sent apart from one sent as its zero
// value: Go's zero value for most of these fields (0, 0.0) is itself a
// valid-looking but wrong number, so bounds-checking alone can't catch a
// missing field.
type rankParamsWire struct {
	K                       *int     `json:"k"`
	MMRLambda               *float64 `json:"mmr_lambda"`
	ConfidenceFloor         *float64 `json:"confidence_floor"`
	RecencyHalfLifeDays     *float64 `json:"recency_half_life_days"`
	SkeletonFilterThreshold *float64 `json:"skeleton_filter_threshold"`
	AllowRepeatDepth        *int     `json:"allow_repeat_depth"`
	AllowRepeatMinHours     *float64 `json:"allow_repeat_min_hours"`
	SuccessBonusAlpha       *float64 `json:"success_bonus_alpha"`
}

// UnmarshalJSON implements json.Unmarshaler, rejecting a request that omits
// any of the required params fields instead of silently defaulting to zero.
func (p *RankParams) UnmarshalJSON(data []byte) error {
	var wire rankParamsWire
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&wire); err != nil {
		return err
	}

	missing := make([]string, 0)
	if wire.K == nil {
		missing = append(missing, "k")
	}
	if wire.MMRLambda == nil {
		missing = append(missing, "mmr_lambda")
	}
	if wire.ConfidenceFloor == nil {
		missing = append(missing, "confidence_floor")
	}
	if wire.RecencyHalfLifeDays == nil {
		missing = append(missing, "recency_half_life_days")
	}
	if wire.SkeletonFilterThreshold == nil {
		missing = append(missing, "skeleton_filter_threshold")
	}
	if wire.AllowRepeatDepth == nil {
		missing = append(missing, "allow_repeat_depth")
	}
	if wire.AllowRepeatMinHours == nil {
		missing = append(missing, "allow_repeat_min_hours")
	}
	if wire.SuccessBonusAlpha == nil {
		missing = append(missing, "success_bonus_alpha")
	}
	if len(missing) > 0 {
		return NewErrorf(ErrCodeSchemaViolation, "params: missing required field(s): %s", strings.Join(missing, ", "))
	}

	p.K = *wire.K
	p.MMRLambda = *wire.MMRLambda
	p.ConfidenceFloor = *wire.ConfidenceFloor
	p.RecencyHalfLifeDays = *wire.RecencyHalfLifeDays
	p.SkeletonFilterThreshold = *wire.SkeletonFilterThreshold
	p.AllowRepeatDepth = *wire.AllowRepeatDepth
	p.AllowRepeatMinHours = *wire.AllowRepeatMinHours
	p.SuccessBonusAlpha = *wire.SuccessBonusAlpha
	return nil
}

// Validate enforces the documented numeric bounds for each field.
func (p RankParams) Validate() error {
	switch {
	case p.K < 1 || p.K > 10:
		return NewErrorf(ErrCodeSchemaViolation, "params.k must be in [1,10], got %d", p.K)
	case p.MMRLambda < 0 || p.MMRLambda > 1:
		return NewErrorf(ErrCodeSchemaViolation, "params.mmr_lambda must be in [0,1], got %v", p.MMRLambda)
	case p.ConfidenceFloor < 0 || p.ConfidenceFloor > 1:
		return NewErrorf(ErrCodeSchemaViolation, "params.confidence_floor must be in [0,1], got %v", p.ConfidenceFloor)
	case p.RecencyHalfLifeDays <= 0:
		return NewErrorf(ErrCodeSchemaViolation, "params.recency_half_life_days must be > 0, got %v", p.RecencyHalfLifeDays)
	case p.SkeletonFilterThreshold < 0 || p.SkeletonFilterThreshold > 1:
		return NewErrorf(ErrCodeSchemaViolation, "params.skeleton_filter_threshold must be in [0,1], got %v", p.SkeletonFilterThreshold)
	case p.AllowRepeatDepth < 0 || p.AllowRepeatDepth > 3:
		return NewErrorf(ErrCodeSchemaViolation, "params.allow_repeat_depth must be in [0,3], got %d", p.AllowRepeatDepth)
	case p.AllowRepeatMinHours < 0:
		return NewErrorf(ErrCodeSchemaViolation, "params.allow_repeat_min_hours must be >= 0, got %v", p.AllowRepeatMinHours)
	case p.SuccessBonusAlpha < 0 || p.SuccessBonusAlpha > 0.2:
		return NewErrorf(ErrCodeSchemaViolation, "params.success_bonus_alpha must be in [0,0.2], got %v", p.SuccessBonusAlpha)
	}
	return nil
}

// QueryContext describes the current PEM and the learner's environment.
type QueryContext struct {
	StudentID            string    `json:"student_id"`
	PemType              string    `json:"pemType"`
	PemSkeleton          string    `json:"pemSkeleton"`
	Timestamp            Timestamp `json:"timestamp"`
	ActiveFileHash       string    `json:"activeFile_hash"`
	WorkingDirectoryHash string    `json:"workingDirectory_hash"`
	DirectoryTree        []string  `json:"directoryTree"`
	Packages             []string  `json:"packages"`
	PythonVersion        string    `json:"pythonVersion"`
	ResolutionDepth      *int      `json:"resolutionDepth"`

	// CurrentPEMPointID and CodeSlice are reserved, Coordinator-supplied
	// fields not yet consumed by any extractor. Declared (not rejected) so
	// the strict decoder accepts Coordinator payloads that already carry
	// them; see SPEC_FULL.md section 12.
	CurrentPEMPointID *string `json:"current_pem_point_id,omitempty"`
	CodeSlice         *string `json:"code_slice,omitempty"`
}

// Validate normalizes packages in place and checks resolutionDepth's bound.
func (q *QueryContext) Validate() error {
	q.Packages = normalizePackages(q.Packages)
	return validateResolutionDepth(q.ResolutionDepth)
}

// Candidate is a past PEM event proposed for ranking against the query.
type Candidate struct {
	ID                   string    `json:"id"`
	VectorSimilarity     float64   `json:"vector_similarity"`
	PemSkeleton          string    `json:"pemSkeleton"`
	Timestamp            Timestamp `json:"timestamp"`
	ActiveFileHash       string    `json:"activeFile_hash"`
	WorkingDirectoryHash string    `json:"workingDirectory_hash"`
	DirectoryTree        []string  `json:"directoryTree"`
	Packages             []string  `json:"packages"`
	PythonVersion        string    `json:"pythonVersion"`
	ResolutionDepth      *int      `json:"resolutionDepth"`

	// ActiveFileExt is reserved for the not-yet-implemented extension-
	// affinity signal; never read by the file feature. See SPEC_FULL.md
	// section 12.
	ActiveFileExt *string `json:"activeFile_ext,omitempty"`
}

// Validate normalizes packages in place and checks numeric bounds.
func (c *Candidate) Validate() error {
	if c.VectorSimilarity < 0 || c.VectorSimilarity > 1 {
		return NewErrorf(ErrCodeSchemaViolation, "candidate %q: vector_similarity must be in [0,1], got %v", c.ID, c.VectorSimilarity)
	}
	c.Packages = normalizePackages(c.Packages)
	if err := validateResolutionDepth(c.ResolutionDepth); err != nil {
		return NewErrorf(ErrCodeSchemaViolation, "candidate %q: %v", c.ID, err)
	}
	return nil
}

func validateResolutionDepth(depth *int) error {
	if depth == nil {
		return nil
	}
	if *depth < 0 || *depth > 3 {
		return NewErrorf(ErrCodeSchemaViolation, "resolutionDepth must be in [0,3], got %d", *depth)
	}
	return nil
}

// RankRequest is the full POST /rank request body.
type RankRequest struct {
	Params     RankParams   `json:"params"`
	Query      QueryContext `json:"query"`
	Candidates []Candidate  `json:"candidates"`
}

// Validate runs every nested validation and normalization step.
func (r *RankRequest) Validate() error {
	if err := r.Params.Validate(); err != nil {
		return err
	}
	if err := r.Query.Validate(); err != nil {
		return err
	}
	for i := range r.Candidates {
		if err := r.Candidates[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Features is the per-item feature breakdown, each value in [0,1].
type Features struct {
	Skeleton float64 `json:"skeleton"`
	Vector   float64 `json:"vector"`
	Recency  float64 `json:"recency"`
	Project  float64 `json:"project"`
	File     float64 `json:"file"`
	Packages float64 `json:"packages"`
	Pyver    float64 `json:"pyver"`
}

// RankedItem is a single emitted recommendation.
type RankedItem struct {
	ID      string   `json:"id"`
	Score   float64  `json:"score"`
	Features Features `json:"features"`
	Reasons []string `json:"reasons"`
}

// RankResponse is the full POST /rank response body.
type RankResponse struct {
	Abstain    bool         `json:"abstain"`
	Reason     *string      `json:"reason"`
	Best       *RankedItem  `json:"best"`
	Alternates []RankedItem `json:"alternates"`
}

var packageVersionSeparators = []string{"==", ">=", "<=", "~="}

// normalizePackages lowercases each entry, strips a version specifier and
// anything after it, drops empty strings, and deduplicates while
// preserving first-seen order.
func normalizePackages(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))

	for _, pkg := range raw {
		p := strings.ToLower(strings.TrimSpace(pkg))
		p = stripVersionSpecifier(p)
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	return out
}

func stripVersionSpecifier(s string) string {
	cut := len(s)
	for _, sep := range packageVersionSeparators {
		if idx := strings.Index(s, sep); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return s[:cut]
}
