package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestPrinter_JSON_Success(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	err := p.Success(map[string]any{
		"notebook": "posts/_intro.ipynb",
		"outfile":  "posts/intro.ipynb",
	})
	if err != nil {
		t.Fatalf("Success() error = %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if result["outfile"] != "posts/intro.ipynb" {
		t.Errorf("outfile = %v", result["outfile"])
	}
}

func TestPrinter_Human_Success(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	if err := p.Success(map[string]any{"message": "Prepared file written to: posts/intro.ipynb"}); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Prepared file written to: posts/intro.ipynb\n" {
		t.Errorf("output = %q", got)
	}
}

func TestPrinter_Error(t *testing.T) {
	tests := []struct {
		name     string
		json     bool
		err      error
		wantCode float64
		wantText string
	}{
		{"json exit error", true, NewSystemError("git add failed"), ExitSystemError, "git add failed"},
		{"json plain error", true, errors.New("no front matter cell"), ExitUserError, "no front matter cell"},
		{"human", false, NewUserError("unsupported header type"), 0, "Error: unsupported header type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewPrinter(&buf, tt.json, false).Error(tt.err)

			if !tt.json {
				if !strings.Contains(buf.String(), tt.wantText) {
					t.Errorf("output = %q, want it to contain %q", buf.String(), tt.wantText)
				}
				return
			}
			var result map[string]any
			if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
				t.Fatalf("output is not JSON: %v", err)
			}
			if result["error"] != tt.wantText || result["code"] != tt.wantCode {
				t.Errorf("result = %v", result)
			}
		})
	}
}

func TestPrinter_WithStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, false, false).WithStderr(&errOut)

	p.Warn("dropped hidden cell %s", "abc")
	p.Stderr("exporting %d notebooks\n", 2)
	p.Error(NewUserError("boom"))

	if out.Len() != 0 {
		t.Errorf("stdout got %q, want nothing", out.String())
	}
	for _, want := range []string{"Warning: dropped hidden cell abc", "exporting 2 notebooks", "Error: boom"} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stderr missing %q:\n%s", want, errOut.String())
		}
	}
}

func TestPrinter_JSON_WarnAndStderr(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, true, false)

	p.Stderr("hidden in json mode")
	p.Warn("marker cell %s missing", "posts/a.ipynb")

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("output is not a single JSON object: %v\n%s", err, buf.String())
	}
	if result["warning"] != "marker cell posts/a.ipynb missing" {
		t.Errorf("warning = %v", result["warning"])
	}
}

func TestPrinter_Table(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	p.Table([]string{"INDEX", "TYPE"}, [][]string{
		{"0", "raw"},
		{"12", "markdown"},
	})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Table() wrote %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[1], "0      raw") || !strings.HasPrefix(lines[2], "12     markdown") {
		t.Errorf("columns not aligned:\n%s", buf.String())
	}
}

func TestPrinter_SectionAndKeyValue(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, false, false)

	p.Section("Front matter")
	p.KeyValue("title", "Intro")

	want := "\nFront matter\n────────────\ntitle: Intro\n"
	if got := buf.String(); got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestResolveColorMode(t *testing.T) {
	tests := []struct {
		mode  string
		isTTY bool
		want  bool
	}{
		{"never", true, false},
		{"always", false, true},
		{"auto", true, true},
		{"auto", false, false},
		{"", true, true},
	}
	for _, tt := range tests {
		if got := ResolveColorMode(tt.mode, tt.isTTY); got != tt.want {
			t.Errorf("ResolveColorMode(%q, %v) = %v, want %v", tt.mode, tt.isTTY, got, tt.want)
		}
	}
}

func TestIsTTY_Buffer(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("a buffer is not a terminal")
	}
}
