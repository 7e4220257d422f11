package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/nbjekyll/internal/config"
	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/output"
	"github.com/gorewood/nbjekyll/internal/preprocess"
)

type exportOutput struct {
	Results []struct {
		Notebook  string   `json:"notebook"`
		Outfile   string   `json:"outfile"`
		Style     string   `json:"style"`
		Warnings  []string `json:"warnings"`
		Signature string   `json:"signature"`
	} `json:"results"`
}

func TestExport_DerivedOutfile(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "_post.ipynb"), postNotebook)

	var got exportOutput
	if err := executeJSON(t, &got, "_post.ipynb"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if len(got.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(got.Results))
	}
	res := got.Results[0]
	if res.Outfile != "post.ipynb" || res.Style != "markdown" {
		t.Errorf("result = %+v", res)
	}
	if !strings.HasPrefix(res.Signature, "sha256:") {
		t.Errorf("signature = %q, want sha256 digest", res.Signature)
	}

	content := readFile(t, filepath.Join(dir, "post.ipynb"))
	if !strings.Contains(content, `"nested"`) {
		t.Errorf("auxiliary cell was not hidden:\n%s", content)
	}
	if readFile(t, filepath.Join(dir, "_post.ipynb")) != postNotebook {
		t.Error("source notebook was modified")
	}
}

func TestExport_InPlaceRoundTrip(t *testing.T) {
	dir := newWorkspace(t)
	path := filepath.Join(dir, "post.ipynb")
	writeFile(t, path, postNotebook)

	if _, err := execute(t, "-i", "post.ipynb"); err != nil {
		t.Fatalf("prepare failed: %v", err)
	}
	prepared := readFile(t, path)
	if !strings.Contains(prepared, `"nested"`) {
		t.Fatalf("prepared notebook has no hidden cell:\n%s", prepared)
	}

	if _, err := execute(t, "export", "-i", "-t", "raw", "post.ipynb"); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	restored := readFile(t, path)
	if strings.Contains(restored, `"nested"`) {
		t.Errorf("hidden cell was not restored:\n%s", restored)
	}
	if !strings.Contains(restored, "title: Draft") || !strings.Contains(restored, "<!-- aux -->") {
		t.Errorf("restored notebook lost content:\n%s", restored)
	}
}

func TestExport_Outfile(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "draft.ipynb"), postNotebook)

	out, err := execute(t, "-o", filepath.Join("site", "_posts", "draft.ipynb"), "--no-sign", "draft.ipynb")
	if err != nil {
		t.Fatalf("export failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Prepared file written to:") {
		t.Errorf("missing success message: %q", out)
	}
	content := readFile(t, filepath.Join(dir, "site", "_posts", "draft.ipynb"))
	if strings.Contains(content, `"signature"`) {
		t.Error("--no-sign output carries a signature")
	}
}

func TestExport_UserErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "outfile with several notebooks", args: []string{"-o", "x.ipynb", "_a.ipynb", "_b.ipynb"}},
		{name: "no derivable outfile", args: []string{"plain.ipynb"}},
		{name: "unknown header type", args: []string{"-t", "html", "_a.ipynb"}},
		{name: "missing front matter", args: []string{"-i", "plain.ipynb"}},
		{name: "missing notebook", args: []string{"-i", "nope.ipynb"}},
		{name: "same destination twice", args: []string{"_a.ipynb", "x_a.ipynb"}},
		{name: "unknown template", args: []string{"--template", "nope", "_a.ipynb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := newWorkspace(t)
			writeFile(t, filepath.Join(dir, "_a.ipynb"), postNotebook)
			writeFile(t, filepath.Join(dir, "_b.ipynb"), postNotebook)
			writeFile(t, filepath.Join(dir, "x_a.ipynb"), postNotebook)
			writeFile(t, filepath.Join(dir, "plain.ipynb"), plainNotebook)

			out, err := execute(t, tt.args...)
			if err == nil {
				t.Fatalf("expected an error, output: %s", out)
			}
			if code := output.GetExitCode(err); code != output.ExitUserError {
				t.Errorf("exit code = %d, want %d (err: %v)", code, output.ExitUserError, err)
			}
		})
	}
}

func TestExport_ProjectConfig(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, config.ProjectFile), "header_type: raw\ntrust:\n  enabled: false\n")
	writeFile(t, filepath.Join(dir, "post.ipynb"), postNotebook)

	var got exportOutput
	if err := executeJSON(t, &got, "-i", "post.ipynb"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if got.Results[0].Style != "raw" || got.Results[0].Signature != "" {
		t.Errorf("project config not applied: %+v", got.Results[0])
	}

	// Flags win over the project file.
	if err := executeJSON(t, &got, "-i", "-t", "markdown", "post.ipynb"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if got.Results[0].Style != "markdown" {
		t.Errorf("style = %q, want markdown", got.Results[0].Style)
	}
}

func TestExport_EnvOverride(t *testing.T) {
	dir := newWorkspace(t)
	t.Setenv("NBJEKYLL_TRUST_ENABLED", "false")
	writeFile(t, filepath.Join(dir, "_post.ipynb"), postNotebook)

	var got exportOutput
	if err := executeJSON(t, &got, "_post.ipynb"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if got.Results[0].Signature != "" {
		t.Errorf("signature = %q with signing disabled", got.Results[0].Signature)
	}
	if _, err := os.Stat(filepath.Join(os.Getenv("NBJEKYLL_CONFIG_HOME"), "notebook_secret")); !os.IsNotExist(err) {
		t.Error("secret was created with signing disabled")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "missing front matter", err: preprocess.ErrMissingFrontMatterCell, want: output.ExitUserError},
		{name: "wrapped no outfile", err: errors.Join(errors.New("ctx"), export.ErrNoOutfile), want: output.ExitUserError},
		{name: "invalid config", err: config.ErrInvalid, want: output.ExitUserError},
		{name: "unknown", err: errors.New("disk on fire"), want: output.ExitSystemError},
		{name: "exit error kept", err: output.NewConflictError("taken"), want: output.ExitConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			if code := output.GetExitCode(got); code != tt.want {
				t.Errorf("classify() exit code = %d, want %d", code, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classify() lost the original error")
			}
		})
	}
	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}
