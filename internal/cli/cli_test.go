package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/packagist-api/internal/config"
	"github.com/samvad-hq/packagist-api/internal/logger"
	"github.com/samvad-hq/packagist-api/internal/storage"
	"github.com/samvad-hq/packagist-api/pkg/packagist"
	"gopkg.in/yaml.v3"
)

// registry serves canned Packagist responses and records request URIs.
type registry struct {
	srv      *httptest.Server
	requests []string
}

func newRegistry(t *testing.T) *registry {
	t.Helper()
	r := &registry{}
	r.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.requests = append(r.requests, req.URL.RequestURI())
		switch req.URL.Path {
		case "/packages/list.json":
			_, _ = w.Write([]byte(`{"packageNames":["composer/installers","composer/semver"]}`))
		case "/packages/monolog/monolog.json":
			_, _ = w.Write([]byte(`{"package":{"name":"monolog/monolog","downloads":{"total":7,"monthly":8,"daily":9}}}`))
		case "/search.json":
			_, _ = w.Write([]byte(`{"results":[{"name":"monolog/monolog","downloads":1}],"total":1}`))
		case "/explore/popular.json":
			if req.URL.Query().Get("per_page") == "1000" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"status":"error","message":"bad request"}`))
				return
			}
			_, _ = w.Write([]byte(`{"packages":[{"name":"a/b"}],"total":1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`not found`))
		}
	}))
	t.Cleanup(r.srv.Close)
	return r
}

func testConfig(t *testing.T, endpoint string) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:                "packagist-cli",
		LogLevel:               "error",
		Endpoint:               endpoint,
		UserAgent:              "packagist-cli-test",
		OutputFormat:           "json",
		HTTPTimeout:            5 * time.Second,
		ArchiveType:            "bbolt",
		ArchivePath:            filepath.Join(t.TempDir(), "archive.db"),
		ArchiveTTL:             time.Hour,
		ArchiveCleanupInterval: time.Hour,
	}
}

func runCLI(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := &app{
		out:        &out,
		loadConfig: func() (*config.Config, error) { c := *cfg; return &c, nil },
		logOutput:  io.Discard,
	}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	reg := newRegistry(t)
	out, err := runCLI(t, testConfig(t, reg.srv.URL), "list", "--vendor", "composer", "--type", "library")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if reg.requests[0] != "/packages/list.json?vendor=composer&type=library" {
		t.Fatalf("unexpected request %q", reg.requests[0])
	}

	var decoded map[string][]string
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got := decoded["packageNames"]; len(got) != 2 || got[0] != "composer/installers" {
		t.Fatalf("unexpected names %v", got)
	}
	if !strings.HasPrefix(out, "{\n  \"packageNames\"") {
		t.Fatalf("expected indented output:\n%s", out)
	}
}

func TestShowCommandKeepsNumbers(t *testing.T) {
	reg := newRegistry(t)
	out, err := runCLI(t, testConfig(t, reg.srv.URL), "show", "monolog/monolog")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if reg.requests[0] != "/packages/monolog/monolog.json" {
		t.Fatalf("unexpected request %q", reg.requests[0])
	}
	if !strings.Contains(out, `"total": 7`) {
		t.Fatalf("expected numeric downloads in output:\n%s", out)
	}
}

func TestSearchCommandYAML(t *testing.T) {
	reg := newRegistry(t)
	out, err := runCLI(t, testConfig(t, reg.srv.URL), "search", "monolog", "--tags", "psr-3", "--per-page", "5", "-o", "yaml")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if reg.requests[0] != "/search.json?q=monolog&tags=psr-3&per_page=5" {
		t.Fatalf("unexpected request %q", reg.requests[0])
	}

	var decoded struct {
		Results []struct {
			Name      string `yaml:"name"`
			Downloads int    `yaml:"downloads"`
		} `yaml:"results"`
		Total int `yaml:"total"`
	}
	if err := yaml.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not YAML: %v\n%s", err, out)
	}
	if decoded.Total != 1 || len(decoded.Results) != 1 || decoded.Results[0].Downloads != 1 {
		t.Fatalf("unexpected yaml output %+v", decoded)
	}
}

func TestPopularCommandSurfacesHTTPError(t *testing.T) {
	reg := newRegistry(t)
	_, err := runCLI(t, testConfig(t, reg.srv.URL), "popular", "--per-page", "1000")

	var httpErr *packagist.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *packagist.HTTPError, got %T (%v)", err, err)
	}
	if httpErr.Code != http.StatusBadRequest || httpErr.Message != "bad request" {
		t.Fatalf("unexpected error %+v", httpErr)
	}
	if len(reg.requests) != 1 {
		t.Fatalf("expected no retries, got %d requests", len(reg.requests))
	}
}

func TestEndpointFlagOverridesConfig(t *testing.T) {
	reg := newRegistry(t)
	cfg := testConfig(t, "http://127.0.0.1:1")
	if _, err := runCLI(t, cfg, "--endpoint", reg.srv.URL, "popular"); err != nil {
		t.Fatalf("popular: %v", err)
	}
	if len(reg.requests) != 1 || reg.requests[0] != "/explore/popular.json" {
		t.Fatalf("unexpected requests %v", reg.requests)
	}
}

func TestUnknownOutputFormat(t *testing.T) {
	reg := newRegistry(t)
	if _, err := runCLI(t, testConfig(t, reg.srv.URL), "-o", "xml", "popular"); err == nil {
		t.Fatalf("expected error for unknown output format")
	}
	if len(reg.requests) != 0 {
		t.Fatalf("expected no request with invalid flags")
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	reg := newRegistry(t)
	cfg := testConfig(t, reg.srv.URL)

	if _, err := runCLI(t, cfg, "show", "monolog/monolog", "--save"); err != nil {
		t.Fatalf("show --save: %v", err)
	}

	out, err := runCLI(t, cfg, "archive", "list")
	if err != nil {
		t.Fatalf("archive list: %v", err)
	}
	if !strings.Contains(out, `"name": "monolog/monolog"`) {
		t.Fatalf("expected snapshot in list:\n%s", out)
	}

	out, err = runCLI(t, cfg, "archive", "get", "monolog/monolog")
	if err != nil {
		t.Fatalf("archive get: %v", err)
	}
	if !strings.Contains(out, `"monthly": 8`) {
		t.Fatalf("expected stored payload:\n%s", out)
	}
	if len(reg.requests) != 1 {
		t.Fatalf("archive reads must not hit the registry, got %v", reg.requests)
	}

	if _, err := runCLI(t, cfg, "archive", "delete", "monolog/monolog"); err != nil {
		t.Fatalf("archive delete: %v", err)
	}
	if _, err := runCLI(t, cfg, "archive", "get", "monolog/monolog"); err == nil {
		t.Fatalf("expected error for deleted snapshot")
	}
}

func TestConfigLoadFailure(t *testing.T) {
	a := &app{
		out:        io.Discard,
		loadConfig: func() (*config.Config, error) { return nil, errors.New("boom") },
		logOutput:  io.Discard,
	}
	root := newRootCmd(a)
	root.SetArgs([]string{"popular"})
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected config error, got %v", err)
	}
}

type closeFailStore struct{ storage.Store }

func (closeFailStore) Close() error { return errors.New("disk gone") }

func TestCloseArchiveBeforeInit(t *testing.T) {
	a := &app{out: io.Discard}
	newRootCmd(a)
	if _, ok := a.log.(logger.NopLogger); !ok {
		t.Fatalf("expected a no-op logger before init, got %T", a.log)
	}
	a.closeArchive(closeFailStore{})
}
