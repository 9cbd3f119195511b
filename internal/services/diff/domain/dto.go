// Package domain defines the diff pipeline types and ports
package domain

import (
	"reflect"
	"strconv"
)

// DiffID correlates the two sources of a comparison and its result
// caller supplied, never generated here
type DiffID int64

// String returns the decimal form used in file names and logs
func (id DiffID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseDiffID parses the decimal form produced by String
func ParseDiffID(s string) (DiffID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return DiffID(v), nil
}

// SourceSide tags which half of a comparison a payload belongs to
type SourceSide uint8

const (
	// SideLeft is the left source
	SideLeft SourceSide = iota
	// SideRight is the right source
	SideRight
)

// Opposite returns the other side
func (s SourceSide) Opposite() SourceSide {
	if s == SideLeft {
		return SideRight
	}
	return SideLeft
}

// String returns "left" or "right"
func (s SourceSide) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// ParseSide accepts "left" or "right"
func ParseSide(s string) (SourceSide, bool) {
	switch s {
	case "left":
		return SideLeft, true
	case "right":
		return SideRight, true
	}
	return SideLeft, false
}

// SourceContent is one side's raw bytes
type SourceContent struct {
	Data []byte
	Side SourceSide
}

// Envelope carries a payload for one DiffID through the queue
type Envelope[T any] struct {
	DiffID DiffID
	Data   T
}

// Equal reports structural equality of id and payload
func (e Envelope[T]) Equal(o Envelope[T]) bool {
	return e.DiffID == o.DiffID && reflect.DeepEqual(e.Data, o.Data)
}

// SourceEnvelope is a single source on the way to pairing
type SourceEnvelope = Envelope[SourceContent]

// ReadyEnvelope is a matched pair, incoming side first
type ReadyEnvelope = Envelope[[]SourceContent]

// DifferenceType classifies a comparison result
type DifferenceType string

const (
	// DiffEqual means same length and no divergent ranges
	DiffEqual DifferenceType = "Equal"
	// DiffSizeDiffers means the sources have different lengths
	DiffSizeDiffers DifferenceType = "SizeDiffers"
	// DiffDetailed means same length with at least one divergent range
	DiffDetailed DifferenceType = "Detailed"
)

// DifferenceDetail is one divergent range, offsets are byte positions
type DifferenceDetail struct {
	LeftOffset  int `json:"leftOffset"`
	LeftLength  int `json:"leftLength"`
	RightOffset int `json:"rightOffset"`
	RightLength int `json:"rightLength"`
}

// DifferenceContent is the persisted comparison result
type DifferenceContent struct {
	Type    DifferenceType     `json:"type"`
	Details []DifferenceDetail `json:"details,omitempty"`
}

// Readiness is derived on read from which artifacts exist
type Readiness uint8

const (
	// NotFound means nothing is known for the id
	NotFound Readiness = iota
	// NotReady means at least one source exists but no diff yet
	NotReady
	// Ready means the diff exists
	Ready
)

func (r Readiness) String() string {
	switch r {
	case Ready:
		return "ready"
	case NotReady:
		return "not_ready"
	default:
		return "not_found"
	}
}

// SourceInput is the upload body for one side, Data is standard base64
type SourceInput struct {
	Data *string `json:"data" validate:"required"`
}

// SourceAck confirms a source was accepted for pairing
type SourceAck struct {
	ID    DiffID `json:"id"`
	Side  string `json:"side"`
	Bytes int    `json:"bytes"`
}
