package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/vango-dev/urlkit/internal/errors"
)

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParse(t *testing.T) {
	out, err := execute(t, "parse", "https://user:pw@example.com:8080/a/b?x=1&y=2#top")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	for _, want := range []string{
		"kind:      absolute",
		"href:      https://user:pw@example.com:8080/a/b?x=1&y=2#top",
		"origin:    https://example.com:8080",
		"username:  user",
		"pathname:  /a/b",
		"param:     x = 1",
		"param:     y = 2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParseJSON(t *testing.T) {
	out, err := execute(t, "parse", "../other?q=1", "--base", "https://example.com/dir/page", "--json")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	var got urlOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if got.Kind != "relative" {
		t.Errorf("Kind = %q, want %q", got.Kind, "relative")
	}
	if got.Href != "https://example.com/other?q=1" {
		t.Errorf("Href = %q, want %q", got.Href, "https://example.com/other?q=1")
	}
	if len(got.SearchParams) != 1 || got.SearchParams[0] != [2]string{"q", "1"} {
		t.Errorf("SearchParams = %v, want [[q 1]]", got.SearchParams)
	}
}

func TestParseRelativeWithoutBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urlkit.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "parse", "/just/a/path", "--config", path)
	if !stderrors.Is(err, kerrors.New(kerrors.CodeInvalidURL)) {
		t.Errorf("err = %v, want InvalidURL", err)
	}
}

func TestParseDefaultBaseFromConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "urlkit.json")
	if err := os.WriteFile(path, []byte(`{"default_base": "https://base.example/app/"}`), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "parse", "page?x=1", "--config", path)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !strings.Contains(out, "href:      https://base.example/app/page?x=1") {
		t.Errorf("output = %q, want resolved href", out)
	}
}

func TestParseBadConfig(t *testing.T) {
	_, err := execute(t, "parse", "page", "--config", filepath.Join(t.TempDir(), "missing.json"))
	if !stderrors.Is(err, kerrors.New(kerrors.CodeConfigMissing)) {
		t.Errorf("err = %v, want ConfigMissing", err)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		base, ref string
		want      string
	}{
		{"https://example.com/dir/page", "../newpage?x=1", "https://example.com/newpage?x=1"},
		{"https://base.com", "//example.com/path", "https://example.com/path"},
		{"https://example.com/a/b", "#frag", "https://example.com/a/b#frag"},
		{"https://example.com/a/b", "http://other.org/", "http://other.org/"},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			out, err := execute(t, "resolve", tt.base, tt.ref)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("resolve(%q, %q) = %q, want %q", tt.base, tt.ref, got, tt.want)
			}
		})
	}
}

func TestResolveArgs(t *testing.T) {
	if _, err := execute(t, "resolve", "https://example.com"); err == nil {
		t.Error("expected an error for a missing relative argument")
	}
}

func TestParams(t *testing.T) {
	out, err := execute(t, "params", "?b=2&a=1&a=3", "--sort")
	if err != nil {
		t.Fatalf("params: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if last := lines[len(lines)-1]; last != "a=1&a=3&b=2" {
		t.Errorf("serialized = %q, want %q", last, "a=1&a=3&b=2")
	}
	if len(lines) != 4 {
		t.Errorf("got %d lines, want 4:\n%s", len(lines), out)
	}
}

func TestParamsLocale(t *testing.T) {
	out, err := execute(t, "params", "b=1&%C3%A4=2&a=3", "--locale", "de", "--json")
	if err != nil {
		t.Fatalf("params: %v", err)
	}

	var got string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got != "a=3&%C3%A4=2&b=1" {
		t.Errorf("serialized = %q, want %q", got, "a=3&%C3%A4=2&b=1")
	}
}

func TestParamsUnknownLocale(t *testing.T) {
	_, err := execute(t, "params", "a=1", "--locale", "not a tag")
	if err == nil || !strings.Contains(err.Error(), "unknown locale") {
		t.Errorf("err = %v, want unknown locale", err)
	}
}

func TestNewServer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "urlkit.json")
	cfg := `{"server": {"host": "127.0.0.1", "port": 9123}, "metrics": {"enabled": false}, "log": {"format": "json"}}`
	if err := os.WriteFile(path, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := serveCmd(&options{configPath: path})
	srv, err := newServer(&options{configPath: path}, "", cmd)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	if got := srv.Config().Address; got != "127.0.0.1:9123" {
		t.Errorf("Address = %q, want %q", got, "127.0.0.1:9123")
	}

	srv, err = newServer(&options{configPath: path}, ":7000", cmd)
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	if got := srv.Config().Address; got != ":7000" {
		t.Errorf("Address = %q, want %q", got, ":7000")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := strings.TrimSpace(out); got != version {
		t.Errorf("version --short = %q, want %q", got, version)
	}

	out, err = execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "Go version:") {
		t.Errorf("version output missing Go version:\n%s", out)
	}
}
