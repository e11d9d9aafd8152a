package cliout

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// captureOutput redirects package output to a buffer during fn.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	restore := SetOutput(&buf)
	defer restore()
	fn()
	return buf.String()
}

func withFormat(t *testing.T, format string) {
	t.Helper()
	if err := SetFormat(format); err != nil {
		t.Fatalf("SetFormat(%q) failed: %v", format, err)
	}
	t.Cleanup(func() { _ = SetFormat("default") })
}

func TestSetFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"default", FormatDefault, false},
		{"", FormatDefault, false},
		{"json", FormatJSON, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"yml", FormatYAML, false},
		{"xml", FormatDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Cleanup(func() { _ = SetFormat("default") })
			err := SetFormat(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("SetFormat(%q) expected error", tt.input)
				}
				if !strings.Contains(err.Error(), "valid options") {
					t.Errorf("error should list valid options, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetFormat(%q) failed: %v", tt.input, err)
			}
			if GetFormat() != tt.want {
				t.Errorf("GetFormat() = %v, want %v", GetFormat(), tt.want)
			}
		})
	}
}

func TestIsJSONAndIsStructured(t *testing.T) {
	if IsJSON() || IsStructured() {
		t.Fatal("default format should not be structured")
	}

	withFormat(t, "yaml")
	if IsJSON() {
		t.Error("IsJSON() should be false for yaml")
	}
	if !IsStructured() {
		t.Error("IsStructured() should be true for yaml")
	}
}

func TestGetIcon(t *testing.T) {
	got := getIcon(SymbolCheck, ASCIICheck)
	if supportsUnicode && got != SymbolCheck {
		t.Errorf("expected unicode icon, got %q", got)
	}
	if !supportsUnicode && got != ASCIICheck {
		t.Errorf("expected ASCII icon, got %q", got)
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
		want string
	}{
		{"success", func() { Success("viewer ready on %d", 8080) }, "viewer ready on 8080"},
		{"error", func() { Error("spawn failed") }, "spawn failed"},
		{"warning", func() { Warning("token dir %s", "/tmp/x") }, "token dir /tmp/x"},
		{"info", func() { Info("waiting") }, "waiting"},
		{"plain", func() { Plain("value=%d", 3) }, "value=3"},
		{"label", func() { Label("Port", "8080") }, "Port:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.fn)
			if !strings.Contains(output, tt.want) {
				t.Errorf("expected %q in output, got %q", tt.want, output)
			}
			if strings.Contains(output, "\033[") {
				t.Errorf("buffer output should not contain ANSI codes, got %q", output)
			}
		})
	}
}

func TestHeader(t *testing.T) {
	output := captureOutput(t, func() { Header("Proxy configuration") })
	if !strings.Contains(output, "Proxy configuration") {
		t.Errorf("expected header text, got %q", output)
	}
	if !strings.Contains(output, strings.Repeat("=", len("Proxy configuration"))) {
		t.Errorf("expected divider, got %q", output)
	}
}

func TestHint(t *testing.T) {
	if output := captureOutput(t, func() { Hint() }); output != "" {
		t.Errorf("Hint() with no arguments should print nothing, got %q", output)
	}
	output := captureOutput(t, func() { Hint("Press Ctrl+C to stop", "Use --no-browser") })
	if !strings.Contains(output, "Press Ctrl+C to stop") || !strings.Contains(output, "Use --no-browser") {
		t.Errorf("expected both hints, got %q", output)
	}
}

func TestForceColor(t *testing.T) {
	output := captureOutput(t, func() {
		ForceColor()
		defer NoColor()
		Success("colored")
	})
	if !strings.Contains(output, BrightGreen) {
		t.Errorf("expected ANSI color with ForceColor, got %q", output)
	}
}

func TestURLAndHighlightWithoutColor(t *testing.T) {
	captureOutput(t, func() {
		if got := URL("http://localhost:8080/"); got != "http://localhost:8080/" {
			t.Errorf("URL() = %q", got)
		}
		if got := Highlight("%s", "guest"); got != "guest" {
			t.Errorf("Highlight() = %q", got)
		}
	})
}

type sample struct {
	Name    string `json:"name" yaml:"name"`
	Timeout int    `json:"timeout" yaml:"timeout"`
}

func TestPrintJSON(t *testing.T) {
	output := captureOutput(t, func() {
		if err := PrintJSON(sample{Name: "image-viewer", Timeout: 90}); err != nil {
			t.Fatalf("PrintJSON failed: %v", err)
		}
	})

	var got sample
	if err := json.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, output)
	}
	if got.Timeout != 90 {
		t.Errorf("Timeout = %d, want 90", got.Timeout)
	}
}

func TestPrintYAML(t *testing.T) {
	output := captureOutput(t, func() {
		if err := PrintYAML(sample{Name: "image-viewer", Timeout: 90}); err != nil {
			t.Fatalf("PrintYAML failed: %v", err)
		}
	})

	if !strings.Contains(output, "timeout: 90") {
		t.Errorf("expected YAML field, got %q", output)
	}
	var got sample
	if err := yaml.Unmarshal([]byte(output), &got); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
}

func TestPrint(t *testing.T) {
	data := sample{Name: "image-viewer", Timeout: 90}

	t.Run("default uses formatter", func(t *testing.T) {
		called := false
		output := captureOutput(t, func() {
			if err := Print(data, func() { called = true; Plain("human") }); err != nil {
				t.Fatal(err)
			}
		})
		if !called || !strings.Contains(output, "human") {
			t.Errorf("formatter not used, output %q", output)
		}
	})

	t.Run("json ignores formatter", func(t *testing.T) {
		withFormat(t, "json")
		output := captureOutput(t, func() {
			if err := Print(data, func() { t.Error("formatter should not run") }); err != nil {
				t.Fatal(err)
			}
		})
		if !strings.Contains(output, `"timeout": 90`) {
			t.Errorf("expected JSON output, got %q", output)
		}
	})

	t.Run("yaml ignores formatter", func(t *testing.T) {
		withFormat(t, "yaml")
		output := captureOutput(t, func() {
			if err := Print(data, func() { t.Error("formatter should not run") }); err != nil {
				t.Fatal(err)
			}
		})
		if !strings.Contains(output, "name: image-viewer") {
			t.Errorf("expected YAML output, got %q", output)
		}
	})
}
