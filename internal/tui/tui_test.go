package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"confluence2rst/internal/config"
	"confluence2rst/internal/rewrite"
	"confluence2rst/internal/rst"
)

func TestParsePositiveInt(t *testing.T) {
	v, err := parsePositiveInt("5", "err")
	if err != nil || v != 5 {
		t.Fatalf("parsePositiveInt unexpected: %v %v", v, err)
	}
	if _, err := parsePositiveInt("0", "err"); err == nil {
		t.Fatalf("expected error for non-positive value")
	}
	if _, err := parsePositiveInt("  ", "err"); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestValidateIntString(t *testing.T) {
	v := validateIntString(0, 10)
	if err := v("5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v("-1"); err == nil {
		t.Fatalf("expected error for below range")
	}
	if err := v("11"); err == nil {
		t.Fatalf("expected error for above range")
	}
	if err := v("nope"); err == nil {
		t.Fatal("expected type error")
	}
}

func TestEnsureConfigExtension(t *testing.T) {
	tests := map[string]string{
		"cfg":      "cfg.json",
		"cfg.json": "cfg.json",
		"cfg.yaml": "cfg.yaml",
		"cfg.YML":  "cfg.YML",
	}
	for in, want := range tests {
		if got := ensureConfigExtension(in); got != want {
			t.Errorf("ensureConfigExtension(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateNewFilename(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile("taken.json", []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := validateNewFilename("taken"); err == nil {
		t.Fatal("expected error for existing file")
	}
	if err := validateNewFilename(""); err == nil {
		t.Fatal("expected error for empty name")
	}
	if err := validateNewFilename("a/b"); err == nil {
		t.Fatal("expected error for path separator")
	}
	if err := validateNewFilename("fresh"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFromConfig_KeepsDefaultsForEmptyValues(t *testing.T) {
	state := newFormState()
	state.fromConfig(config.Config{PageID: "42", TimeoutSeconds: 5, Rewriter: "remote", RewriteKey: "k"})

	if state.pageID != "42" || state.timeoutSecStr != "5" || state.rewriter != "remote" || state.rewriteKey != "k" {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.tableLayout != string(rst.LayoutGrid) || state.finalAction != "run" {
		t.Fatalf("defaults lost: %+v", state)
	}
}

func TestBuildResult_RunOnly(t *testing.T) {
	state := newFormState()
	state.pageID = " 123 "
	state.baseURL = "https://example.atlassian.net"
	state.token = "tok"
	state.rewriter = "local"

	res, err := buildResult(state)
	if err != nil {
		t.Fatalf("buildResult error: %v", err)
	}
	if !res.RunNow || res.SaveConfig {
		t.Fatalf("unexpected actions: %+v", res)
	}
	opts := res.Options
	if opts.PageID != "123" || opts.Token != "tok" || opts.Timeout != 60*time.Second {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if opts.Rewrite.Kind != rewrite.KindLocal || opts.Rewrite.Endpoint != rewrite.DefaultLocalEndpoint {
		t.Fatalf("unexpected rewrite config: %+v", opts.Rewrite)
	}
}

func TestBuildResult_SavesConfigWithoutSecrets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	state := newFormState()
	state.pageID = "7"
	state.baseURL = "https://example.atlassian.net"
	state.token = "secret"
	state.rewriter = "remote"
	state.rewriteKey = "sk-secret"
	state.tableLayout = "legacy"
	state.finalAction = "save_only"
	state.configPath = path

	res, err := buildResult(state)
	if err != nil {
		t.Fatalf("buildResult error: %v", err)
	}
	if res.RunNow || !res.SaveConfig || res.ConfigPath != path {
		t.Fatalf("unexpected result: %+v", res)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if cfg.PageID != "7" || cfg.Rewriter != "remote" || cfg.TableLayout != "legacy" {
		t.Fatalf("unexpected saved config: %+v", cfg)
	}
	if cfg.Token != "" || cfg.RewriteKey != "" {
		t.Fatalf("secrets must not be saved: %+v", cfg)
	}
}

func TestBuildResult_InvalidTimeout(t *testing.T) {
	state := newFormState()
	state.timeoutSecStr = "0"
	if _, err := buildResult(state); err == nil {
		t.Fatal("expected timeout error")
	}
}
