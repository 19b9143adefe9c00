package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/macrowire/pkg/macrowire/config"
)

const fixtureNews = `{"title":"PBOC cuts RRR","summary":"<p>Frees <b>liquidity</b></p>","published_at":"2024-01-03T00:00:00Z","source_id":"pboc","source_name":"PBOC","content_type":"news","url":"https://www.pbc.gov.cn/1"}
{"title":"Tariff schedule published","summary":"","published_at":"2024-01-02T00:00:00Z","source_id":"mofcom","source_name":"MOFCOM","content_type":"notice"}
not json
{"title":"Monthly CPI","summary":"","published_at":"2024-01-01T00:00:00Z","source_id":"nbs","source_name":"NBS","content_type":"data"}
`

const fixtureIndex = `{"last_run": {"sources": {
  "pboc": {"fetched": 4, "new": 1, "skipped": 3, "status": "ok", "failure_streak": 0, "zero_new_streak": 0, "last_run": "2024-01-03T00:05:00Z"},
  "mofcom": {"fetched": 0, "status": "error", "failure_streak": 3, "last_error": "timeout"}
}}, "alerts": [{"source_id": "mofcom", "type": "failure_streak", "streak": 3, "message": "3 failures", "last_run": "", "last_error": "timeout"}]}`

func setupData(t *testing.T, news, index string) string {
	t.Helper()
	t.Setenv(config.EnvDataDir, "")
	t.Setenv(config.EnvStore, "")
	t.Setenv(config.EnvLogLevel, "")

	dir := t.TempDir()
	if news != "" {
		if err := os.WriteFile(filepath.Join(dir, "news.jsonl"), []byte(news), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if index != "" {
		if err := os.WriteFile(filepath.Join(dir, "index.json"), []byte(index), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func run(t *testing.T, dir string, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))

	base := []string{"--config", filepath.Join(dir, "absent.yaml"), "--data-dir", dir}
	cmd.SetArgs(append(base, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestNewsCommand(t *testing.T) {
	dir := setupData(t, fixtureNews, "")

	out, err := run(t, dir, "", "news")
	if err != nil {
		t.Fatalf("news: %v", err)
	}
	if !strings.HasPrefix(out, "Page 1/1 (3 items)\n") {
		t.Errorf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "2024-01-03T00:00:00Z  [PBOC] PBOC cuts RRR") {
		t.Errorf("missing headline: %q", out)
	}
	if !strings.Contains(out, "利率/流动性 · 操作") {
		t.Errorf("missing chinese tags: %q", out)
	}
	if !strings.Contains(out, "    Frees liquidity\n") {
		t.Errorf("summary should be plain text: %q", out)
	}
	if strings.Index(out, "PBOC cuts RRR") > strings.Index(out, "Monthly CPI") {
		t.Errorf("expected newest first: %q", out)
	}
}

func TestNewsCommandEnglishLabels(t *testing.T) {
	dir := setupData(t, fixtureNews, "")

	out, err := run(t, dir, "", "--lang", "en", "news", "--per-page", "1", "--page", "1")
	if err != nil {
		t.Fatalf("news: %v", err)
	}
	if !strings.HasPrefix(out, "Page 1/3 (3 items)\n") {
		t.Errorf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "Rates & Liquidity · Operations") {
		t.Errorf("missing english tags: %q", out)
	}
}

func TestNewsCommandJSON(t *testing.T) {
	dir := setupData(t, fixtureNews, "")

	out, err := run(t, dir, "", "--json", "news", "--page", "9", "--per-page", "2")
	if err != nil {
		t.Fatalf("news: %v", err)
	}

	var page struct {
		Items       []map[string]any `json:"items"`
		TotalPages  int              `json:"totalPages"`
		CurrentPage int              `json:"currentPage"`
		TotalItems  int              `json:"totalItems"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if page.TotalPages != 2 || page.CurrentPage != 2 || page.TotalItems != 3 || len(page.Items) != 1 {
		t.Errorf("unexpected page: %+v", page)
	}
	if page.Items[0]["title"] != "Monthly CPI" {
		t.Errorf("unexpected item: %v", page.Items[0])
	}
}

func TestNewsCommandEmpty(t *testing.T) {
	dir := setupData(t, "", "")

	out, err := run(t, dir, "", "news")
	if err != nil {
		t.Fatalf("news: %v", err)
	}
	if out != "Page 1/1 (0 items)\n\nNo news yet.\n" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestSourcesCommand(t *testing.T) {
	dir := setupData(t, fixtureNews, "")

	out, err := run(t, dir, "", "sources", "--limit", "1")
	if err != nil {
		t.Fatalf("sources: %v", err)
	}
	if !strings.HasPrefix(out, "== PBOC (pboc) latest 2024-01-03T00:00:00Z\n") {
		t.Errorf("unexpected output: %q", out)
	}
	if strings.Count(out, "== ") != 3 {
		t.Errorf("expected 3 source headers: %q", out)
	}

	out, err = run(t, dir, "", "sources", "--summary")
	if err != nil {
		t.Fatalf("sources --summary: %v", err)
	}
	if strings.Count(out, "\n") != 3 || !strings.Contains(out, "PBOC") {
		t.Errorf("unexpected summary: %q", out)
	}
}

func TestTopicsCommand(t *testing.T) {
	dir := setupData(t, fixtureNews, "")

	out, err := run(t, dir, "", "--json", "topics", "--topic", "trade_industry")
	if err != nil {
		t.Fatalf("topics: %v", err)
	}

	var buckets []struct {
		ID    string           `json:"id"`
		Label string           `json:"label"`
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal([]byte(out), &buckets); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(buckets) != 1 || buckets[0].ID != "trade_industry" || len(buckets[0].Items) != 1 {
		t.Errorf("unexpected buckets: %+v", buckets)
	}

	if _, err := run(t, dir, "", "topics", "--topic", "weather"); err == nil {
		t.Error("expected error for unknown topic")
	}
}

func TestClassifyCommand(t *testing.T) {
	dir := setupData(t, "", "")

	in := `{"title":"PBOC cuts RRR","source_id":"pboc","content_type":"news"}
broken
{"title":"Monthly CPI","source_id":"nbs"}
`
	out, err := run(t, dir, in, "--json", "classify")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 result lines, got %q", out)
	}
	if lines[0] != `{"title":"PBOC cuts RRR","source_id":"pboc","topics":["rates_liquidity"],"event_type":"operations"}` {
		t.Errorf("unexpected first line: %s", lines[0])
	}
	if !strings.Contains(lines[1], `"event_type":"data"`) {
		t.Errorf("unexpected second line: %s", lines[1])
	}
}

func TestClassifyCommandFromFile(t *testing.T) {
	dir := setupData(t, "", "")
	path := filepath.Join(dir, "input.jsonl")
	if err := os.WriteFile(path, []byte(`{"title":"Board meeting"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, dir, "", "classify", "--file", path)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "policy" || fields[1] != "-" {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := run(t, dir, "", "classify", "--file", filepath.Join(dir, "nope.jsonl")); err == nil {
		t.Error("expected error for missing input file")
	}
}

func TestStatusCommandMarkdown(t *testing.T) {
	dir := setupData(t, "", fixtureIndex)

	out, err := run(t, dir, "", "status", "--format", "markdown")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.HasPrefix(out, "\nPer-source stats:\n") {
		t.Errorf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "| mofcom | 0 | 0 | 0 | error | 3 | 0 |  |\n| pboc | 4 | 1 | 3 | ok | 0 | 0 | 2024-01-03T00:05:00Z |\n") {
		t.Errorf("rows missing or unsorted: %q", out)
	}
	if !strings.Contains(out, "- mofcom: failure_streak (streak=3) 3 failures last_run= last_error=timeout\n") {
		t.Errorf("alert missing: %q", out)
	}
}

func TestStatusCommandTable(t *testing.T) {
	dir := setupData(t, "", fixtureIndex)

	out, err := run(t, dir, "", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Source", "Failure Streak", "pboc", "mofcom", "Alerts:"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}

	if _, err := run(t, dir, "", "status", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStatusCommandMissingIndex(t *testing.T) {
	dir := setupData(t, "", "")

	out, err := run(t, dir, "", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out != "No index.json available for per-source stats.\n" {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = run(t, dir, "", "status", "--format", "markdown")
	if err != nil {
		t.Fatalf("status --format markdown: %v", err)
	}
	if out != "\nNo index.json available for per-source stats.\n" {
		t.Errorf("unexpected markdown: %q", out)
	}

	out, err = run(t, dir, "", "--json", "status")
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	if strings.TrimSpace(out) != "{}" {
		t.Errorf("expected {}, got %q", out)
	}
}

func TestStatusCommandMalformedIndex(t *testing.T) {
	dir := setupData(t, "", `{"last_run": {"sources": `)

	out, err := run(t, dir, "", "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if out != "index.json is not valid JSON.\n" {
		t.Errorf("unexpected output: %q", out)
	}

	out, err = run(t, dir, "", "status", "--format", "markdown")
	if err != nil {
		t.Fatalf("status --format markdown: %v", err)
	}
	if out != "\nindex.json is not valid JSON.\n" {
		t.Errorf("unexpected markdown: %q", out)
	}
}

func TestOverviewCommand(t *testing.T) {
	dir := setupData(t, fixtureNews, fixtureIndex)

	out, err := run(t, dir, "", "--lang", "en", "overview")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	for _, want := range []string{"Topics (", "Rates & Liquidity", "Sources (3)", "pboc", "Alerts (1)", "mofcom: failure_streak (streak=3)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestOverviewCommandIndexNotice(t *testing.T) {
	dir := setupData(t, fixtureNews, "")

	out, err := run(t, dir, "", "overview")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if !strings.Contains(out, "Sources (3)") {
		t.Errorf("news sections should still render: %q", out)
	}
	if !strings.HasSuffix(out, "\nNo index.json available for per-source stats.\n") {
		t.Errorf("expected missing index notice at the end: %q", out)
	}

	if err := os.WriteFile(filepath.Join(dir, "index.json"), []byte("{{"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, dir, "", "overview")
	if err != nil {
		t.Fatalf("overview: %v", err)
	}
	if !strings.Contains(out, "\nindex.json is not valid JSON.\n") {
		t.Errorf("expected invalid index notice: %q", out)
	}
}

func TestOverviewCommandCanceled(t *testing.T) {
	dir := setupData(t, fixtureNews, fixtureIndex)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "absent.yaml"), "--data-dir", dir, "overview"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := cmd.ExecuteContext(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if strings.Contains(out.String(), "Topics (") {
		t.Errorf("canceled overview should not render: %q", out.String())
	}
}

func TestSQLiteStoreMissingDatabase(t *testing.T) {
	dir := setupData(t, fixtureNews, "")
	t.Setenv(config.EnvStore, "sqlite")

	out, err := run(t, dir, "", "news")
	if err != nil {
		t.Fatalf("news: %v", err)
	}
	if !strings.HasPrefix(out, "Page 1/1 (0 items)") {
		t.Errorf("missing database should read empty: %q", out)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := setupData(t, "", "")
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("store: postgres\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", path, "news"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected config error")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "macrowire dev (commit: none") {
		t.Errorf("unexpected version output: %q", out.String())
	}
}
