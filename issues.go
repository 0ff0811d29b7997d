package optionpl

import (
	"fmt"

	"github.com/etnz/optionpl/date"
)

// IssueKind classifies the anomalies met while replaying a ledger. None of
// them stops the replay.
type IssueKind int

const (
	// InvalidNumericInput flags a non-positive quantity, a negative price or a
	// non-positive strike. The transaction is skipped.
	InvalidNumericInput IssueKind = iota
	// UnknownPosition flags a close, expire or assign on an option series that
	// is not open. The transaction is skipped.
	UnknownPosition
	// DirectionMismatch flags an open on an existing series with the opposite
	// direction. The transaction is skipped.
	DirectionMismatch
	// Clamped flags a quantity larger than the open quantity. An option
	// transaction applies to the open contracts only. A share sale applies in
	// full and the excess over the long shares held is sold short.
	Clamped
	// Malformed flags an unknown option kind or direction. The transaction is
	// skipped.
	Malformed
)

func (k IssueKind) String() string {
	switch k {
	case InvalidNumericInput:
		return "invalid-numeric-input"
	case UnknownPosition:
		return "unknown-position"
	case DirectionMismatch:
		return "direction-mismatch"
	case Clamped:
		return "clamped"
	case Malformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Skipped reports whether an issue of this kind means the transaction was ignored.
func (k IssueKind) Skipped() bool { return k != Clamped }

// Issue is a diagnostic attached to one transaction of the ledger.
type Issue struct {
	Kind    IssueKind
	Date    date.Date
	Command CommandType
	ID      string // ID of the offending transaction, may be empty.
	Detail  string
}

func (i Issue) String() string {
	ref := i.ID
	if ref == "" {
		ref = "-"
	}
	return fmt.Sprintf("%s %s %s [%s]: %s", i.Date, i.Command, ref, i.Kind, i.Detail)
}
