package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeAST(t *testing.T, doc map[string]any) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal AST doc: %v", err)
	}
	path := filepath.Join(t.TempDir(), "program.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write AST doc: %v", err)
	}
	return path
}

func captureRunOutput(t *testing.T, path string, args []string) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := runProgram(runCmd, append([]string{path}, args...))

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String(), err
}

func TestRunProgramPrintsLiteral(t *testing.T) {
	doc := map[string]any{
		"statements": []any{
			map[string]any{
				"type": "ExpressionStatement",
				"expr": map[string]any{
					"type": "Call",
					"fn":   map[string]any{"type": "Identifier", "name": "print"},
					"args": []any{
						map[string]any{"value": map[string]any{"type": "Literal", "value": "hello"}},
					},
				},
			},
		},
	}
	path := writeAST(t, doc)

	output, err := captureRunOutput(t, path, nil)
	if err != nil {
		t.Fatalf("runProgram failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("expected output to contain %q, got %q", "hello", output)
	}
}

func TestRunProgramAssignArithmetic(t *testing.T) {
	doc := map[string]any{
		"statements": []any{
			map[string]any{
				"type": "Assign",
				"lhs":  map[string]any{"type": "Identifier", "name": "x"},
				"rhs": map[string]any{
					"type":     "Op",
					"operator": "+",
					"left":     map[string]any{"type": "Literal", "value": 2},
					"right":    map[string]any{"type": "Literal", "value": 3},
				},
			},
			map[string]any{
				"type": "ExpressionStatement",
				"expr": map[string]any{
					"type": "Call",
					"fn":   map[string]any{"type": "Identifier", "name": "print"},
					"args": []any{
						map[string]any{"value": map[string]any{"type": "Identifier", "name": "x"}},
					},
				},
			},
		},
	}
	path := writeAST(t, doc)

	output, err := captureRunOutput(t, path, nil)
	if err != nil {
		t.Fatalf("runProgram failed: %v\noutput: %s", err, output)
	}
	if strings.TrimSpace(output) != "5" {
		t.Errorf("output = %q, want %q", output, "5\n")
	}
}

func TestRunProgramMissingFile(t *testing.T) {
	_, err := captureRunOutput(t, filepath.Join(t.TempDir(), "missing.json"), nil)
	if err == nil {
		t.Fatal("expected an error for a missing AST file")
	}
}

func TestRunProgramInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("write bad AST doc: %v", err)
	}

	_, err := captureRunOutput(t, path, nil)
	if err == nil {
		t.Fatal("expected a decode error for invalid JSON")
	}
}

func TestLoadPermissionsDefaultsToDeny(t *testing.T) {
	oldFile, oldAllow := permissionsFile, allowAll
	defer func() { permissionsFile, allowAll = oldFile, oldAllow }()
	permissionsFile, allowAll = "", false

	perms, err := loadPermissions()
	if err != nil {
		t.Fatalf("loadPermissions: %v", err)
	}
	if perms.Policy != "deny" {
		t.Errorf("default policy = %q, want %q", perms.Policy, "deny")
	}
}

func TestLoadPermissionsAllowAllOverridesFile(t *testing.T) {
	oldFile, oldAllow := permissionsFile, allowAll
	defer func() { permissionsFile, allowAll = oldFile, oldAllow }()
	permissionsFile, allowAll = "/nonexistent.yaml", true

	perms, err := loadPermissions()
	if err != nil {
		t.Fatalf("loadPermissions: %v", err)
	}
	if perms.Policy != "allow" {
		t.Errorf("policy = %q, want %q", perms.Policy, "allow")
	}
}
