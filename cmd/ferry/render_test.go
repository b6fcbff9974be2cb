package main

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestRenderTableAlignsNumericColumns(t *testing.T) {
	out := renderTable(
		[]column{
			{name: "File"},
			{name: "Bytes", numeric: true},
		},
		[][]string{
			{"a.bin", "9"},
			{"b.bin", "1048576"},
		},
	)

	lines := strings.Split(out, "\n")
	var short, long string
	for _, line := range lines {
		if strings.Contains(line, "a.bin") {
			short = line
		}
		if strings.Contains(line, "b.bin") {
			long = line
		}
	}
	if short == "" || long == "" {
		t.Fatalf("rows missing from output:\n%s", out)
	}
	if strings.Index(short, "9")+1 != strings.Index(long, "1048576")+len("1048576") {
		t.Fatalf("numeric column not right aligned:\n%s", out)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable(
		[]column{{name: "A"}, {name: "B"}},
		[][]string{{"only"}},
	)
	if !strings.Contains(out, "only") {
		t.Fatalf("row missing from output:\n%s", out)
	}
}

func TestRenderStatusLine(t *testing.T) {
	plain := renderStatusLine("Source directory", statusOK, "/srv/in", false)
	if plain != "  Source directory:     [OK] /srv/in" {
		t.Fatalf("unexpected plain line: %q", plain)
	}

	colored := renderStatusLine("Source directory", statusError, "missing", true)
	if !strings.HasPrefix(colored, "\x1b[31m") || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red wrapped line, got %q", colored)
	}
	if !strings.Contains(colored, "[ERROR] missing") {
		t.Fatalf("label missing from colored line: %q", colored)
	}
}

func TestRenderSectionHeaderRuleMatchesTitle(t *testing.T) {
	lines := renderSectionHeader("Readiness", false)
	if len(lines) != 2 {
		t.Fatalf("expected title and rule, got %d lines", len(lines))
	}
	if len(lines[1]) != len(lines[0]) {
		t.Fatalf("rule length %d does not match title length %d", len(lines[1]), len(lines[0]))
	}
}

func TestShouldColorizeNonTerminal(t *testing.T) {
	if shouldColorize(&bytes.Buffer{}) {
		t.Fatal("buffer writer must not colorize")
	}
}

func TestShouldColorizeHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if shouldColorize(os.Stdout) {
		t.Fatal("NO_COLOR must disable color")
	}
}
