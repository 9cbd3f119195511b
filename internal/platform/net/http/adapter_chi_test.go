package http

import (
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func tag(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Add("X-Tag", name)
			next.ServeHTTP(w, r)
		})
	}
}

func write(s string) Handler {
	return func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = w.Write([]byte(s)) }
}

func TestAdaptChi_MiddlewareScopes(t *testing.T) {
	t.Parallel()
	r := AdaptChi(chi.NewRouter())
	r.Use(tag("root"))
	r.Get("/root", write("root"))
	r.Group(func(g Router) {
		g.Use(tag("group"))
		g.Get("/grouped", write("g"))
	})
	r.Route("/diff", func(sub Router) {
		sub.Use(tag("route"))
		sub.Get("/{id}", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			_, _ = w.Write([]byte("id=" + Param(req, "id")))
		})
		sub.Route("/{id}/left", func(deep Router) {
			deep.Post("/", write("left"))
		})
	})

	cases := []struct {
		method, path, body, tags string
	}{
		{stdhttp.MethodGet, "/root", "root", "root"},
		{stdhttp.MethodGet, "/grouped", "g", "root,group"},
		{stdhttp.MethodGet, "/diff/42", "id=42", "root,route"},
		{stdhttp.MethodPost, "/diff/42/left/", "left", "root,route"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		if rec.Code != stdhttp.StatusOK || rec.Body.String() != c.body {
			t.Errorf("%s %s got %d %q", c.method, c.path, rec.Code, rec.Body)
		}
		if got := strings.Join(rec.Header().Values("X-Tag"), ","); got != c.tags {
			t.Errorf("%s tags got %q want %q", c.path, got, c.tags)
		}
	}
}

func TestAdaptChi_MethodsAndHandle(t *testing.T) {
	t.Parallel()
	r := AdaptChi(chi.NewRouter())
	r.Get("/m", write(stdhttp.MethodGet))
	r.Post("/m", write(stdhttp.MethodPost))
	r.Handle("/any/*", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
		_, _ = w.Write([]byte("any " + req.Method))
	}))

	cases := []struct{ method, path, want string }{
		{stdhttp.MethodGet, "/m", "GET"},
		{stdhttp.MethodPost, "/m", "POST"},
		{stdhttp.MethodPut, "/any/x/y", "any PUT"},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		r.Mux().ServeHTTP(rec, httptest.NewRequest(c.method, c.path, nil))
		if rec.Body.String() != c.want {
			t.Errorf("%s %s got %q", c.method, c.path, rec.Body)
		}
	}
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodDelete, "/m", nil))
	if rec.Code != stdhttp.StatusMethodNotAllowed {
		t.Errorf("unrouted method got %d", rec.Code)
	}
}
