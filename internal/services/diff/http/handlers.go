// Package http provides http transport for the diff pipeline
package http

import (
	"encoding/base64"
	stdhttp "net/http"

	"diffjar/internal/modkit/httpkit"
	perr "diffjar/internal/platform/errors"
	"diffjar/internal/platform/net/http/bind"
	"diffjar/internal/services/diff/domain"
)

// bodySlack covers the JSON around the base64 payload
const bodySlack = 1 << 10

// Register mounts diff endpoints on the given router
// upload bodies are capped at the base64 size of maxSourceBytes, zero keeps the bind default
func Register(r httpkit.Router, s domain.PipelinePort, maxSourceBytes int) {
	h := &handlers{svc: s}
	var opt bind.Options
	if maxSourceBytes > 0 {
		opt.MaxBytes = int64(base64.StdEncoding.EncodedLen(maxSourceBytes) + bodySlack)
	}
	httpkit.PostJSON(r, "/{id}/left", h.upload(domain.SideLeft), opt)
	httpkit.PostJSON(r, "/{id}/right", h.upload(domain.SideRight), opt)
	httpkit.Get(r, "/{id}", h.find)
}

type handlers struct{ svc domain.PipelinePort }

func parseID(r *stdhttp.Request) (domain.DiffID, error) {
	id, err := domain.ParseDiffID(httpkit.Param(r, "id"))
	if err != nil {
		return 0, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "id must be an integer"), "id")
	}
	return id, nil
}

// swagger:route POST /diff/{id}/left Diff diffUploadLeft
// @Summary Upload one side of a comparison
// @Description Same contract for /diff/{id}/right. The diff is computed asynchronously once both sides exist
// @Tags Diff
// @Accept json
// @Produce json
// @Param id path int true "Diff id"
// @Param payload body domain.SourceInput true "Base64 payload"
// @Success 200 {object} domain.SourceAck "accepted"
// @Failure 400 {object} httpkit.Envelope "bad id, body or base64"
// @Router /diff/{id}/left [post]
func (h *handlers) upload(side domain.SourceSide) func(*stdhttp.Request, domain.SourceInput) (any, error) {
	return func(r *stdhttp.Request, in domain.SourceInput) (any, error) {
		id, err := parseID(r)
		if err != nil {
			return nil, err
		}
		data, err := base64.StdEncoding.DecodeString(*in.Data)
		if err != nil {
			return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "data must be base64"), "data")
		}
		if err := h.svc.AddSource(r.Context(), id, domain.SourceContent{Data: data, Side: side}); err != nil {
			return nil, err
		}
		return domain.SourceAck{ID: id, Side: side.String(), Bytes: len(data)}, nil
	}
}

// swagger:route GET /diff/{id} Diff diffFind
// @Summary Fetch the computed diff
// @Tags Diff
// @Produce json
// @Param id path int true "Diff id"
// @Success 200 {object} domain.DifferenceContent "ready"
// @Success 204 "a source exists but the diff is not computed yet"
// @Failure 404 {object} httpkit.Envelope "nothing known for id"
// @Router /diff/{id} [get]
func (h *handlers) find(r *stdhttp.Request) (any, error) {
	id, err := parseID(r)
	if err != nil {
		return nil, err
	}
	diff, rd, err := h.svc.FindDiff(r.Context(), id)
	if err != nil {
		return nil, err
	}
	switch rd {
	case domain.Ready:
		return httpkit.OK(diff), nil
	case domain.NotReady:
		return httpkit.NoContent(), nil
	default:
		return nil, perr.NotFoundf("diff %s not found", id)
	}
}
