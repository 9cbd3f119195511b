package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	perr "diffjar/internal/platform/errors"
	phttp "diffjar/internal/platform/net/http"
	"diffjar/internal/services/diff/domain"

	"github.com/go-chi/chi/v5"
)

type fakePipeline struct {
	mu    sync.Mutex
	added []domain.SourceEnvelope
	err   error

	diff  *domain.DifferenceContent
	ready domain.Readiness
}

func (f *fakePipeline) AddSource(_ context.Context, id domain.DiffID, src domain.SourceContent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.added = append(f.added, domain.SourceEnvelope{DiffID: id, Data: src})
	return nil
}

func (f *fakePipeline) FindDiff(context.Context, domain.DiffID) (*domain.DifferenceContent, domain.Readiness, error) {
	return f.diff, f.ready, f.err
}

func newRouter(p domain.PipelinePort) stdhttp.Handler { return newLimitedRouter(p, 0) }

func newLimitedRouter(p domain.PipelinePort, maxSource int) stdhttp.Handler {
	r := phttp.AdaptChi(chi.NewRouter())
	r.Route("/diff", func(sub phttp.Router) { Register(sub, p, maxSource) })
	return r.Mux()
}

func do(t *testing.T, h stdhttp.Handler, method, path, body string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	var req *stdhttp.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env phttp.Envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestUpload_Accepts(t *testing.T) {
	t.Parallel()
	p := &fakePipeline{}
	h := newRouter(p)

	for _, side := range []string{"left", "right"} {
		rec, env := do(t, h, stdhttp.MethodPost, "/diff/12/"+side, `{"data":"`+b64("12345")+`"}`)
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("%s: status got %d want 200 body=%s", side, rec.Code, rec.Body)
		}
		ack, _ := env.Data.(map[string]any)
		if ack["side"] != side || ack["id"] != float64(12) || ack["bytes"] != float64(5) {
			t.Fatalf("%s: ack got %v", side, env.Data)
		}
	}
	if len(p.added) != 2 {
		t.Fatalf("AddSource calls got %d want 2", len(p.added))
	}
	if p.added[0].Data.Side != domain.SideLeft || p.added[1].Data.Side != domain.SideRight {
		t.Fatalf("sides got %v, %v", p.added[0].Data.Side, p.added[1].Data.Side)
	}
	if string(p.added[0].Data.Data) != "12345" || p.added[0].DiffID != 12 {
		t.Fatalf("payload got %+v", p.added[0])
	}
}

func TestUpload_EmptyDataIsAllowed(t *testing.T) {
	t.Parallel()
	p := &fakePipeline{}
	rec, _ := do(t, newRouter(p), stdhttp.MethodPost, "/diff/1/left", `{"data":""}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status got %d want 200", rec.Code)
	}
	if len(p.added) != 1 || len(p.added[0].Data.Data) != 0 {
		t.Fatalf("added got %+v", p.added)
	}
}

func TestUpload_BadRequests(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name, path, body string
	}{
		{"empty body", "/diff/1/left", ""},
		{"not json", "/diff/1/left", "nope"},
		{"missing data", "/diff/1/left", `{}`},
		{"null data", "/diff/1/right", `{"data":null}`},
		{"bad base64", "/diff/1/left", `{"data":"%%%"}`},
		{"unknown field", "/diff/1/left", `{"data":"` + b64("x") + `","extra":1}`},
		{"bad id", "/diff/abc/left", `{"data":"` + b64("x") + `"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := &fakePipeline{}
			rec, env := do(t, newRouter(p), stdhttp.MethodPost, tc.path, tc.body)
			if rec.Code != stdhttp.StatusBadRequest {
				t.Fatalf("status got %d want 400 body=%s", rec.Code, rec.Body)
			}
			if env.Error == "" {
				t.Fatalf("expected error message in envelope")
			}
			if len(p.added) != 0 {
				t.Fatalf("AddSource must not be called")
			}
		})
	}
}

func TestUpload_PipelineValidationMapsTo400(t *testing.T) {
	t.Parallel()
	p := &fakePipeline{err: perr.Newf(perr.ErrorCodeValidation, "data must be at most 4 bytes")}
	rec, env := do(t, newRouter(p), stdhttp.MethodPost, "/diff/1/left", `{"data":"`+b64("12345")+`"}`)
	if rec.Code != stdhttp.StatusBadRequest || !strings.Contains(env.Error, "at most 4 bytes") {
		t.Fatalf("got %d %q", rec.Code, env.Error)
	}
}

func TestFind_Readiness(t *testing.T) {
	t.Parallel()
	diff := &domain.DifferenceContent{Type: domain.DiffDetailed, Details: []domain.DifferenceDetail{
		{LeftOffset: 1, LeftLength: 2, RightOffset: 1, RightLength: 2},
	}}

	cases := []struct {
		name   string
		p      *fakePipeline
		status int
	}{
		{"not found", &fakePipeline{ready: domain.NotFound}, stdhttp.StatusNotFound},
		{"not ready", &fakePipeline{ready: domain.NotReady}, stdhttp.StatusNoContent},
		{"ready", &fakePipeline{ready: domain.Ready, diff: diff}, stdhttp.StatusOK},
		{"storage down", &fakePipeline{err: perr.Unavailablef("disk gone")}, stdhttp.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec, _ := do(t, newRouter(tc.p), stdhttp.MethodGet, "/diff/5", "")
			if rec.Code != tc.status {
				t.Fatalf("status got %d want %d body=%s", rec.Code, tc.status, rec.Body)
			}
			if tc.status == stdhttp.StatusNoContent && rec.Body.Len() != 0 {
				t.Fatalf("204 must have no body, got %q", rec.Body)
			}
		})
	}
}

func TestFind_ReadyBody(t *testing.T) {
	t.Parallel()
	p := &fakePipeline{ready: domain.Ready, diff: &domain.DifferenceContent{
		Type: domain.DiffDetailed,
		Details: []domain.DifferenceDetail{
			{LeftOffset: 1, LeftLength: 2, RightOffset: 1, RightLength: 2},
			{LeftOffset: 4, LeftLength: 1, RightOffset: 4, RightLength: 1},
		},
	}}
	rec, _ := do(t, newRouter(p), stdhttp.MethodGet, "/diff/5", "")

	var body struct {
		Data domain.DifferenceContent `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Type != domain.DiffDetailed || len(body.Data.Details) != 2 || body.Data.Details[1].LeftOffset != 4 {
		t.Fatalf("body got %+v", body.Data)
	}
	if !strings.Contains(rec.Body.String(), `"leftOffset":1,"leftLength":2,"rightOffset":1,"rightLength":2`) {
		t.Fatalf("wire names changed: %s", rec.Body)
	}
}

func TestFind_BadID(t *testing.T) {
	t.Parallel()
	rec, _ := do(t, newRouter(&fakePipeline{}), stdhttp.MethodGet, "/diff/1.5", "")
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status got %d want 400", rec.Code)
	}
}

func TestUpload_BodyLimitFollowsSourceLimit(t *testing.T) {
	t.Parallel()
	p := &fakePipeline{}
	h := newLimitedRouter(p, 4<<20)

	// 2MB source is above the bind default but within the source limit
	big := strings.Repeat("x", 2<<20)
	rec, _ := do(t, h, stdhttp.MethodPost, "/diff/3/left", `{"data":"`+b64(big)+`"}`)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("2MB upload got %d", rec.Code)
	}

	huge := strings.Repeat("x", 5<<20)
	rec, env := do(t, h, stdhttp.MethodPost, "/diff/3/right", `{"data":"`+b64(huge)+`"}`)
	if rec.Code != stdhttp.StatusBadRequest || env.Code != perr.ErrorCodeValidation || !strings.Contains(env.Error, "exceeds") {
		t.Fatalf("oversized upload got %d %+v", rec.Code, env)
	}
	if len(p.added) != 1 {
		t.Fatalf("oversized upload must not reach the pipeline, added=%d", len(p.added))
	}
}
