// Package bindiff compares two byte sequences position by position and reports divergent ranges
package bindiff

import "iter"

// Kind classifies a comparison
type Kind uint8

const (
	// Equal means same length and every byte matched
	Equal Kind = iota
	// SizeDiffers means the inputs have different lengths, no ranges are computed
	SizeDiffers
	// Detailed means same length with at least one divergent range
	Detailed
)

func (k Kind) String() string {
	switch k {
	case SizeDiffers:
		return "SizeDiffers"
	case Detailed:
		return "Detailed"
	default:
		return "Equal"
	}
}

// Range is one divergent window, offsets and lengths are in bytes
type Range struct {
	LeftOffset  int
	LeftLength  int
	RightOffset int
	RightLength int
}

// Result is the outcome of Compare
type Result struct {
	Kind   Kind
	Ranges []Range
}

// Compare classifies left against right and collects every divergent range
func Compare(left, right []byte) Result {
	if len(left) != len(right) {
		return Result{Kind: SizeDiffers}
	}
	var out []Range
	for r := range Ranges(left, right) {
		out = append(out, r)
	}
	if len(out) == 0 {
		return Result{Kind: Equal}
	}
	return Result{Kind: Detailed, Ranges: out}
}

// Ranges yields divergent ranges in a single forward pass
// inputs of different length yield nothing
//
// A window opens at the first mismatch and closes at the first of, in order:
// the left cursor reaching a byte equal to right at the window start,
// the right cursor reaching a byte equal to left at the window start,
// or both cursors landing on equal bytes. Both cursors advance every step.
func Ranges(left, right []byte) iter.Seq[Range] {
	return func(yield func(Range) bool) {
		if len(left) != len(right) {
			return
		}
		var (
			w    Range
			open bool
		)
		for l, r := 0, 0; l < len(left) && r < len(right); l, r = l+1, r+1 {
			if !open {
				if left[l] != right[r] {
					w = Range{LeftOffset: l, RightOffset: r}
					open = true
				}
				continue
			}

			closed := true
			switch {
			case left[l] == right[w.RightOffset]:
				w.LeftLength = l - w.LeftOffset
				r = w.RightOffset
			case right[r] == left[w.LeftOffset]:
				w.RightLength = r - w.RightOffset
				l = w.LeftOffset
			case left[l] == right[r]:
				w.LeftLength = l - w.LeftOffset
				w.RightLength = r - w.RightOffset
			default:
				closed = false
			}
			if closed {
				open = false
				if !yield(w) {
					return
				}
			}
		}
		if open {
			w.LeftLength = len(left) - w.LeftOffset
			w.RightLength = len(right) - w.RightOffset
			yield(w)
		}
	}
}
