package contracts

// SkipReason classifies why a symbol was dropped from a batch without
// aborting it. A skip is a normal, first-class outcome, not an error.
type SkipReason string

const (
	// SkipNone means the symbol was fully analyzed.
	SkipNone SkipReason = ""

	// SkipDataUnavailable: the provider returned no usable data.
	SkipDataUnavailable SkipReason = "data_unavailable"

	// SkipInsufficientHistory: price series shorter than the long
	// moving-average window.
	SkipInsufficientHistory SkipReason = "insufficient_history"

	// SkipInvalidAnchor: no trading date within tolerance of the
	// announcement date during rebasing.
	SkipInvalidAnchor SkipReason = "invalid_anchor"

	// SkipComputationDegenerate: a ratio computation would divide by
	// zero.
	SkipComputationDegenerate SkipReason = "computation_degenerate"
)

// Skipped reports whether the reason marks a dropped symbol.
func (r SkipReason) Skipped() bool {
	return r != SkipNone
}
