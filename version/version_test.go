package version

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jongio/image-viewer-proxy/cliout"
)

func TestNew_Defaults(t *testing.T) {
	info := New("image-viewer-proxy")
	if info.Version != "0.0.0-dev" {
		t.Errorf("expected Version '0.0.0-dev', got %q", info.Version)
	}
	if info.BuildDate != "unknown" {
		t.Errorf("expected BuildDate 'unknown', got %q", info.BuildDate)
	}
	if info.Name != "image-viewer-proxy" {
		t.Errorf("expected Name 'image-viewer-proxy', got %q", info.Name)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("expected GoVersion to start with 'go', got %q", info.GoVersion)
	}
}

func TestInfo_String(t *testing.T) {
	info := &Info{
		Version:   "1.2.3",
		BuildDate: "2024-01-01",
		GitCommit: "abc123",
		Name:      "image-viewer-proxy",
	}
	expected := "image-viewer-proxy version 1.2.3 (commit: abc123, built: 2024-01-01)"
	if got := info.String(); got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

// runCommand executes the version command with args and returns its output.
func runCommand(t *testing.T, format string, args ...string) string {
	t.Helper()
	if err := cliout.SetFormat(format); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = cliout.SetFormat("default") })

	var buf bytes.Buffer
	restore := cliout.SetOutput(&buf)
	defer restore()

	cmd := NewCommand(New("image-viewer-proxy"))
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestNewCommand_HumanReadable(t *testing.T) {
	output := runCommand(t, "default")
	for _, want := range []string{"Version", "Build Date", "Git Commit", "Go"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestNewCommand_JSON(t *testing.T) {
	output := runCommand(t, "json")
	var parsed Info
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("expected valid JSON, got error: %v\noutput: %s", err, output)
	}
	if parsed.Version != "0.0.0-dev" {
		t.Errorf("expected version '0.0.0-dev', got %q", parsed.Version)
	}
}

func TestNewCommand_YAML(t *testing.T) {
	output := runCommand(t, "yaml")
	if !strings.Contains(output, "name: image-viewer-proxy") {
		t.Errorf("expected YAML output, got:\n%s", output)
	}
}

func TestNewCommand_Quiet(t *testing.T) {
	output := runCommand(t, "default", "--quiet")
	if trimmed := strings.TrimSpace(output); trimmed != "0.0.0-dev" {
		t.Errorf("expected '0.0.0-dev', got %q", trimmed)
	}
}
