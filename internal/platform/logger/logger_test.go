package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kit "diffjar/internal/platform/testkit"
)

func TestLevelOf(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"trace", "trace"},
		{"debug", "debug"},
		{"info", "info"},
		{"warn", "warn"},
		{"warning", "warn"},
		{"error", "error"},
		{"fatal", "fatal"},
		{"panic", "panic"},
		{" Info ", "info"},
		{"", "debug"},
		{"   nonsense   ", "debug"},
	}
	for _, c := range cases {
		if got := levelOf(c.in).String(); got != c.want {
			t.Fatalf("levelOf(%q) got %q want %q", c.in, got, c.want)
		}
	}
}

func TestInit_RootNamedAndContextFields(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{
		Level:        "info",
		Format:       "json",
		Service:      "svc-a",
		Writer:       &buf,
		StaticFields: map[string]string{"build": "test"},
	})

	Get().Info().Msg("root-msg")
	Named("queue").Info().Msg("named-msg")

	ctx := WithDiff(WithRequest(context.Background(), "req-123"), 42)
	C(ctx).Info().Msg("ctx-msg")
	C(context.Background()).Debug().Msg("below-level")

	out := buf.String()
	kit.MustContain(t, out, `"message":"root-msg"`)
	kit.MustContain(t, out, `"component":"queue"`)
	kit.MustContain(t, out, `"request_id":"req-123"`)
	kit.MustContain(t, out, `"diff_id":42`)
	kit.MustContain(t, out, `"service":"svc-a"`)
	kit.MustContain(t, out, `"build":"test"`)
	if strings.Contains(out, "below-level") {
		t.Fatalf("debug line leaked through info level: %s", out)
	}
}

func TestWithRequest_EmptyIsNoop(t *testing.T) {
	base := context.Background()
	if got := WithRequest(base, ""); got != base {
		t.Fatalf("expected unchanged ctx for empty request id")
	}
}

func TestBuild_FileSinkGetsJSON(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "diffjar.log")

	log := Options{
		Level:     "debug",
		Format:    "console",
		Writer:    &console,
		File:      path,
		FileMaxMB: 1,
	}.build()
	log.Info().Str("k", "v").Msg("to-both")

	if !strings.Contains(console.String(), "to-both") {
		t.Fatalf("console output missing line: %q", console.String())
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var line map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(b), &line); err != nil {
		t.Fatalf("file line is not JSON: %q (%v)", b, err)
	}
	if line["message"] != "to-both" || line["k"] != "v" {
		t.Fatalf("file line got %v", line)
	}
}

func TestFromEnv_Independently(t *testing.T) {
	t.Setenv("LOG_LEVEL", "WARN")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_SERVICE", "svc-b")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")
	t.Setenv("LOG_FILE", "/var/log/diffjar.log")
	t.Setenv("LOG_FILE_BACKUPS", "7")

	opt := FromEnv()
	if opt.Level != "warn" || opt.Format != "json" || opt.Service != "svc-b" {
		t.Fatalf("FromEnv fields mismatch: %+v", opt)
	}
	if !opt.WithCaller || opt.SampleEvery != 5 {
		t.Fatalf("FromEnv caller/sample mismatch: %+v", opt)
	}
	if opt.File != "/var/log/diffjar.log" || opt.FileBackups != 7 || opt.FileMaxMB != 100 || opt.FileMaxAgeDays != 28 {
		t.Fatalf("FromEnv file options mismatch: %+v", opt)
	}
}
