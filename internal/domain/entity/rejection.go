package entity

// RejectReason enumerates why the validator refused a record.
type RejectReason string

const (
	ReasonMissingField        RejectReason = "MissingField"
	ReasonBadNumber           RejectReason = "BadNumber"
	ReasonNonPositiveQuantity RejectReason = "NonPositiveQuantity"
	ReasonNegativePrice       RejectReason = "NegativePrice"
	ReasonBadDate             RejectReason = "BadDate"
	ReasonUnknownRegion       RejectReason = "UnknownRegion"
)

// RejectReasons lists every reason in report order.
var RejectReasons = []RejectReason{
	ReasonMissingField,
	ReasonBadNumber,
	ReasonNonPositiveQuantity,
	ReasonNegativePrice,
	ReasonBadDate,
	ReasonUnknownRegion,
}

// Rejection records one refused input record together with its raw line,
// kept for the run statistics and diagnostics.
type Rejection struct {
	Line   int
	Raw    string
	Reason RejectReason
}

// RejectionStats is the accumulator threaded through validation. It is
// returned by value so the validator itself stays free of shared state.
type RejectionStats struct {
	LinesRead     int
	ParseFailures int
	Valid         int
	ByReason      map[RejectReason]int
}

// NewRejectionStats returns an empty accumulator.
func NewRejectionStats() RejectionStats {
	return RejectionStats{ByReason: make(map[RejectReason]int)}
}

// Reject counts one rejection under its reason.
func (s *RejectionStats) Reject(reason RejectReason) {
	s.ByReason[reason]++
}

// Rejected is the total number of records refused by the validator,
// excluding lines that already failed to parse.
func (s *RejectionStats) Rejected() int {
	total := 0
	for _, n := range s.ByReason {
		total += n
	}
	return total
}
