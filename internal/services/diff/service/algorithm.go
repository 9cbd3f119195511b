package service

import (
	"diffjar/internal/core/bindiff"
	perr "diffjar/internal/platform/errors"
	dom "diffjar/internal/services/diff/domain"
)

// Binary is the byte position comparison from core/bindiff
type Binary struct{}

var _ dom.Algorithm = Binary{}

// Compare needs exactly one Left and one Right in any order
func (Binary) Compare(sources []dom.SourceContent) (dom.DifferenceContent, error) {
	var left, right *dom.SourceContent
	for i := range sources {
		switch sources[i].Side {
		case dom.SideLeft:
			if left != nil {
				return dom.DifferenceContent{}, perr.InvalidArgf("compare: duplicate left source")
			}
			left = &sources[i]
		case dom.SideRight:
			if right != nil {
				return dom.DifferenceContent{}, perr.InvalidArgf("compare: duplicate right source")
			}
			right = &sources[i]
		}
	}
	if left == nil || right == nil {
		return dom.DifferenceContent{}, perr.InvalidArgf("compare: need one left and one right source, got %d sources", len(sources))
	}

	res := bindiff.Compare(left.Data, right.Data)
	out := dom.DifferenceContent{Type: dom.DifferenceType(res.Kind.String())}
	if len(res.Ranges) > 0 {
		out.Details = make([]dom.DifferenceDetail, len(res.Ranges))
		for i, r := range res.Ranges {
			out.Details[i] = dom.DifferenceDetail{
				LeftOffset:  r.LeftOffset,
				LeftLength:  r.LeftLength,
				RightOffset: r.RightOffset,
				RightLength: r.RightLength,
			}
		}
	}
	return out, nil
}
