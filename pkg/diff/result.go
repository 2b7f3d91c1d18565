package diff

// SimilarityUnset is the sentinel value held by Similarity before any
// byte or element comparison has run. Directory results never set the
// field.
const SimilarityUnset = -1.0

// Result captures the outcome of comparing two filesystem objects.
// Exactly one of byte-level comparison, typed-image comparison, or
// directory aggregation populates a Result; the fields relevant to the
// other two keep their defaults. A Result is finalized once by the
// comparator that owns it and treated as immutable afterwards.
type Result struct {
	// Left and Right identify the two compared objects
	Left  string `json:"left"`
	Right string `json:"right"`

	// Matches is true only if the objects are fully equivalent under the
	// applicable comparison rule
	Matches bool `json:"matches"`

	// LeftOnly, RightOnly and Common partition the entry names of a
	// directory comparison; every name appears in exactly one of them
	LeftOnly  []string `json:"left_only,omitempty"`
	RightOnly []string `json:"right_only,omitempty"`
	Common    []string `json:"common,omitempty"`

	// Similarity is the fraction of matching units (bytes or typed
	// elements) in [0,1], or SimilarityUnset
	Similarity float64 `json:"similarity"`

	// AdditionalInfo explains why a mismatch occurred; empty on match
	AdditionalInfo string `json:"additional_info,omitempty"`

	// SubDiffs holds the child results of a directory comparison, in
	// Common order; each child is exclusively owned by its parent
	SubDiffs []*Result `json:"sub_diffs,omitempty"`

	// Report is the rendered multi-line mismatch description, built
	// bottom-up from child reports; empty on match
	Report string `json:"report,omitempty"`

	// Err records why a subtree comparison could not run. Distinct from
	// a mismatch: the entry errored rather than differed.
	Err string `json:"error,omitempty"`
}

// NewResult creates a default result to be built on
func NewResult(left, right string) *Result {
	return &Result{
		Left:       left,
		Right:      right,
		Similarity: SimilarityUnset,
	}
}
