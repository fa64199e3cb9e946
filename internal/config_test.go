package internal

import (
	"strings"
	"testing"
	"time"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	if err := NewDefaultConfig().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestWorkspaceConfig_RootRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Workspace.Root = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty workspace root should fail")
	}
}

func TestEditorConfig_Bounds(t *testing.T) {
	tests := []struct {
		name string
		cfg  EditorConfig
		ok   bool
	}{
		{"defaults", EditorConfig{FrameInterval: 50 * time.Millisecond, QueueSize: 64}, true},
		{"zero interval", EditorConfig{QueueSize: 64}, false},
		{"slow frames", EditorConfig{FrameInterval: 5 * time.Second, QueueSize: 64}, false},
		{"zero queue", EditorConfig{FrameInterval: 50 * time.Millisecond}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestExportConfig_Validation(t *testing.T) {
	cfg := ExportConfig{Extensions: []string{"gfm", "footnote"}, Highlight: true, HighlightStyle: "monokai"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid export config: %v", err)
	}

	cfg.Extensions = append(cfg.Extensions, "mermaid")
	if err := cfg.Validate(); err == nil {
		t.Error("unknown extension should fail")
	}

	cfg = ExportConfig{Highlight: true, HighlightStyle: "no-such-style"}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown style should fail")
	}

	cfg = ExportConfig{Highlight: false, HighlightStyle: "no-such-style"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("style is ignored when highlighting is off: %v", err)
	}
}

func TestSQLiteConfig_Enabled(t *testing.T) {
	if (&SQLiteConfig{}).Enabled() {
		t.Error("empty path should disable the catalog")
	}
	if !(&SQLiteConfig{Path: "x.db"}).Enabled() {
		t.Error("path should enable the catalog")
	}
}
