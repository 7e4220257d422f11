package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorewood/nbjekyll/internal/export"
	"github.com/gorewood/nbjekyll/internal/output"
)

func TestInspect(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "_post.ipynb"), postNotebook)

	var before export.Summary
	if err := executeJSON(t, &before, "inspect", "_post.ipynb"); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	// Cells are tagged by the first export.
	if before.FrontMatterCell != -1 || before.Hidden != 0 || len(before.Cells) != 3 {
		t.Errorf("summary before export = %+v", before)
	}

	if _, err := execute(t, "_post.ipynb"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var after export.Summary
	if err := executeJSON(t, &after, "inspect", "post.ipynb"); err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	if after.FrontMatterCell != 0 || after.HeaderStyle != "markdown" || after.Hidden != 1 || after.Signature == "" {
		t.Errorf("summary after export = %+v", after)
	}
	if len(after.Cells) != len(before.Cells)-1 {
		t.Errorf("visible cells = %d, want %d", len(after.Cells), len(before.Cells)-1)
	}
}

func TestInspect_Human(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "_post.ipynb"), postNotebook)
	if _, err := execute(t, "_post.ipynb"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	out, err := execute(t, "inspect", "post.ipynb")
	if err != nil {
		t.Fatalf("inspect failed: %v", err)
	}
	for _, want := range []string{"Notebook", "Front matter", "Cells", "title", "Draft", "<!-- aux -->"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestVerify(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "_post.ipynb"), postNotebook)
	if _, err := execute(t, "_post.ipynb"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got struct {
		Results   []verifyResult `json:"results"`
		Untrusted int            `json:"untrusted"`
	}
	if err := executeJSON(t, &got, "verify", "post.ipynb"); err != nil {
		t.Fatalf("verify of a signed notebook failed: %v", err)
	}
	if len(got.Results) != 1 || !got.Results[0].Trusted {
		t.Errorf("verify results = %+v", got.Results)
	}

	err := executeJSON(t, &got, "verify", "post.ipynb", "_post.ipynb")
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
	if got.Untrusted != 1 {
		t.Errorf("untrusted = %d, want 1", got.Untrusted)
	}
}

func TestVerify_TamperedNotebook(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "_post.ipynb"), postNotebook)
	if _, err := execute(t, "_post.ipynb"); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	path := filepath.Join(dir, "post.ipynb")
	writeFile(t, path, strings.Replace(readFile(t, path), "Text", "Edited", 1))

	if _, err := execute(t, "verify", "post.ipynb"); output.GetExitCode(err) != output.ExitUserError {
		t.Errorf("verify of an edited notebook: err = %v, want user error", err)
	}
}

func TestVerify_SigningDisabled(t *testing.T) {
	dir := newWorkspace(t)
	t.Setenv("NBJEKYLL_TRUST_ENABLED", "false")
	writeFile(t, filepath.Join(dir, "post.ipynb"), postNotebook)

	_, err := execute(t, "verify", "post.ipynb")
	if code := output.GetExitCode(err); code != output.ExitUserError {
		t.Errorf("exit code = %d, want %d", code, output.ExitUserError)
	}
}

func TestSignatures(t *testing.T) {
	dir := newWorkspace(t)
	writeFile(t, filepath.Join(dir, "_a.ipynb"), postNotebook)
	writeFile(t, filepath.Join(dir, "_b.ipynb"), strings.Replace(postNotebook, "Text", "Other", 1))
	if _, err := execute(t, "_a.ipynb", "_b.ipynb"); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var listed struct {
		Signatures []struct {
			Algorithm string `json:"algorithm"`
			Signature string `json:"signature"`
		} `json:"signatures"`
	}
	if err := executeJSON(t, &listed, "signatures", "list"); err != nil {
		t.Fatalf("signatures list failed: %v", err)
	}
	if len(listed.Signatures) != 2 {
		t.Fatalf("listed %d signatures, want 2", len(listed.Signatures))
	}
	if listed.Signatures[0].Algorithm != "sha256" {
		t.Errorf("algorithm = %q", listed.Signatures[0].Algorithm)
	}

	var culled struct {
		Removed int `json:"removed"`
	}
	if err := executeJSON(t, &culled, "signatures", "cull", "--keep", "1"); err != nil {
		t.Fatalf("signatures cull failed: %v", err)
	}
	if culled.Removed != 1 {
		t.Errorf("removed = %d, want 1", culled.Removed)
	}
}
