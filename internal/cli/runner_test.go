package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/x/ansi"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/model"
)

func runCLI(t *testing.T, stdin string, cfg *config.Config, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(args, Options{
		Config: cfg,
		Stdin:  strings.NewReader(stdin),
		Stdout: &out,
		Stderr: &errOut,
	})
	return code, out.String(), errOut.String()
}

const milkScript = `{"intents":[
	{"op":"add","title":"Buy milk"},
	{"op":"add","title":"Walk dog"},
	{"op":"add","title":"Buy milk"},
	{"op":"toggle","index":2}
]}`

func TestReplayFromStdin(t *testing.T) {
	code, out, errOut := runCLI(t, milkScript, nil, "replay", "-")
	if code != 0 {
		t.Fatalf("exit code: got %d, stderr %q", code, errOut)
	}
	for _, want := range []string{"Buy milk", "Walk dog", "Total 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(errOut, "Task already exists") {
		t.Errorf("stderr missing duplicate notice: %q", errOut)
	}
}

func TestReplayFromFileGrouped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intents.json")
	if err := os.WriteFile(path, []byte(milkScript), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Group = true

	code, out, _ := runCLI(t, "", cfg, "replay", path)
	if code != 0 {
		t.Fatalf("exit code: got %d", code)
	}
	pending := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	walk := strings.Index(out, "Walk dog")
	if pending < 0 || done < 0 || walk < done {
		t.Errorf("Walk dog should be listed under Done:\n%s", out)
	}
}

func TestReplayInvalidScript(t *testing.T) {
	code, _, errOut := runCLI(t, `{"intents":[{"op":"fly"}]}`, nil, "replay", "-")
	if code != 2 {
		t.Errorf("exit code: got %d, want 2", code)
	}
	if !strings.Contains(errOut, "intents[0]") {
		t.Errorf("stderr should name the bad intent: %q", errOut)
	}
}

func TestReplayMissingFile(t *testing.T) {
	code, _, _ := runCLI(t, "", nil, "replay", filepath.Join(t.TempDir(), "nope.json"))
	if code != 1 {
		t.Errorf("exit code: got %d, want 1", code)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"replay without file", []string{"replay"}},
		{"unknown subcommand", []string{"frobnicate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, "", nil, tt.args...)
			if code != 2 {
				t.Errorf("exit code: got %d, want 2", code)
			}
			if errOut == "" {
				t.Error("want a message on stderr")
			}
		})
	}
}

func TestHelpAndConfig(t *testing.T) {
	code, out, _ := runCLI(t, "", nil, "help")
	if code != 0 || !strings.Contains(out, "replay") {
		t.Errorf("help: code %d out %q", code, out)
	}
	code, out, _ = runCLI(t, "", nil, "config")
	if code != 0 || !strings.Contains(out, `theme = "classic"`) {
		t.Errorf("config: code %d out %q", code, out)
	}
}

func TestReplayDuplicateReportedOnce(t *testing.T) {
	_, _, errOut := runCLI(t, milkScript, nil, "replay", "-")
	if n := strings.Count(errOut, "Task already exists"); n != 1 {
		t.Errorf("duplicate notice printed %d times, want 1:\n%s", n, errOut)
	}
	if strings.Contains(errOut, "duplicate task rejected") {
		t.Errorf("store trace leaked at info level:\n%s", errOut)
	}
}

func TestReplayReportsLeftovers(t *testing.T) {
	doc := `{"intents":[
		{"op":"add","title":"A"},
		{"op":"add","title":"B"},
		{"op":"add","title":"  "},
		{"op":"remove","id":1},
		{"op":"edit","id":2},
		{"op":"type","id":2,"title":"B2"}
	]}`
	code, _, errOut := runCLI(t, doc, nil, "replay", "-")
	if code != 0 {
		t.Fatalf("exit code: got %d, stderr %q", code, errOut)
	}
	for _, want := range []string{
		"skipped 1 add(s) with a blank title",
		"1 removal(s) declined",
		"task #2 still being edited",
	} {
		if !strings.Contains(errOut, want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut)
		}
	}
}

func TestFlatLinesTruncatesByWidth(t *testing.T) {
	title := strings.Repeat("a", 76) + strings.Repeat("ção", 5)
	lines := flatLines([]model.Task{{ID: 1, Title: title}})
	if len(lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(lines))
	}
	line := lines[0]
	if !utf8.ValidString(line) {
		t.Fatalf("line is not valid UTF-8: %q", line)
	}
	if !strings.HasSuffix(line, "...") {
		t.Errorf("line should end with an ellipsis: %q", line)
	}
	if !strings.Contains(line, strings.Repeat("a", 76)+"ç") {
		t.Errorf("accented runes before the cut were dropped: %q", line)
	}
	if w := ansi.StringWidth(ansi.Truncate(title, maxTitleWidth, "...")); w > maxTitleWidth {
		t.Errorf("title width: got %d, want <= %d", w, maxTitleWidth)
	}
}

func TestFlatLinesKeepsShortAccentedTitle(t *testing.T) {
	lines := flatLines([]model.Task{{ID: 1, Title: "Remover item ção"}})
	if !strings.HasSuffix(lines[0], "Remover item ção") {
		t.Errorf("short title altered: %q", lines[0])
	}
}
