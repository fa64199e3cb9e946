package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("FOLIO_TEST_NAME", "notes")
	path := writeFile(t, "name: ${FOLIO_TEST_NAME}\nport: 9000\n")

	var s sample
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "notes" || s.Port != 9000 {
		t.Errorf("loaded = %+v", s)
	}
}

func TestLoad_KeepsDefaults(t *testing.T) {
	path := writeFile(t, "name: x\n")

	s := sample{Port: 8080}
	if err := Load(path, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Port != 8080 {
		t.Errorf("port = %d, default should survive", s.Port)
	}
}

func TestLoad_Validates(t *testing.T) {
	path := writeFile(t, "port: 0\n")

	var s sample
	err := Load(path, &s)
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("err = %v, want validation failure", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeFile(t, "port: [\n")
	var s sample
	if err := Load(path, &s); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_Optional(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	s := sample{Port: 1}
	if err := Load(missing, &s, Optional[sample]()); err != nil {
		t.Errorf("missing optional file: %v", err)
	}
	if err := Load(missing, &s); err == nil {
		t.Error("a required file must exist")
	}

	s = sample{}
	if err := Load(missing, &s, Optional[sample]()); err == nil {
		t.Error("defaults are still validated")
	}

	path := writeFile(t, "port: 7\n")
	if err := Load(path, &s, Optional[sample]()); err != nil || s.Port != 7 {
		t.Errorf("existing file: err=%v s=%+v", err, s)
	}
}

func TestLoad_OverrideRunsBeforeValidation(t *testing.T) {
	path := writeFile(t, "name: file\nport: 0\n")

	var s sample
	var order []string
	err := Load(path, &s,
		WithOverride(func(c *sample) { order = append(order, "port"); c.Port = 9 }),
		WithOverride(func(c *sample) { order = append(order, "name"); c.Name = "flag" }),
	)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Port != 9 || s.Name != "flag" {
		t.Errorf("loaded = %+v, overrides should win over the file", s)
	}
	if strings.Join(order, ",") != "port,name" {
		t.Errorf("override order = %v", order)
	}
}
