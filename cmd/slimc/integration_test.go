package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// CaseSpec is one tree document exercised through every subcommand
type CaseSpec struct {
	Name        string   `yaml:"name"`
	Input       string   `yaml:"input"`
	Expect      []string `yaml:"expect"` // Strings that must appear in the narrow output
	Args        []string `yaml:"args"`
	Result      string   `yaml:"result"` // Expected eval output; empty skips eval
	StrictError bool     `yaml:"strict_error"`
	Skip        string   `yaml:"skip,omitempty"`
}

// CaseFile represents the testdata/cases.yaml file structure
type CaseFile struct {
	Tests []CaseSpec `yaml:"tests"`
}

func loadCases(t *testing.T) []CaseSpec {
	t.Helper()
	data, err := os.ReadFile("testdata/cases.yaml")
	if err != nil {
		t.Fatalf("failed to read cases.yaml: %v", err)
	}
	var f CaseFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		t.Fatalf("failed to parse cases.yaml: %v", err)
	}
	if len(f.Tests) == 0 {
		t.Fatal("cases.yaml has no tests")
	}
	return f.Tests
}

// execute runs slimc with args and returns stdout, stderr and the error
func execute(args ...string) (string, string, error) {
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--no-color"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write document: %v", err)
	}
	return path
}

func TestCases(t *testing.T) {
	for _, tc := range loadCases(t) {
		t.Run(tc.Name, func(t *testing.T) {
			if tc.Skip != "" {
				t.Skip(tc.Skip)
			}
			path := writeDoc(t, tc.Input)

			out, errOut, err := execute("narrow", path)
			if err != nil {
				t.Fatalf("narrow failed: %v\n%s", err, errOut)
			}
			for _, want := range tc.Expect {
				if !strings.Contains(out, want) {
					t.Errorf("narrow output missing %q:\n%s", want, out)
				}
			}

			rt, errOut, err := execute("roundtrip", path)
			if err != nil {
				t.Fatalf("roundtrip failed: %v\n%s", err, errOut)
			}
			if rt != out {
				t.Errorf("roundtrip output differs from narrow:\n%s\nvs\n%s", rt, out)
			}
			if !strings.Contains(errOut, "is stable") {
				t.Errorf("roundtrip did not report success: %q", errOut)
			}

			_, errOut, err = execute(append([]string{"--strict", "narrow"}, path)...)
			if tc.StrictError {
				if !errors.Is(err, ErrFreeVariables) {
					t.Errorf("strict narrow error = %v, want ErrFreeVariables", err)
				}
				if !strings.Contains(errOut, "free parameters") {
					t.Errorf("strict narrow diagnostic = %q", errOut)
				}
			} else if err != nil {
				t.Errorf("strict narrow failed: %v\n%s", err, errOut)
			}

			if tc.Result == "" {
				return
			}
			got, errOut, err := execute(append([]string{"eval", path}, tc.Args...)...)
			if err != nil {
				t.Fatalf("eval failed: %v\n%s", err, errOut)
			}
			if strings.TrimSpace(got) != tc.Result {
				t.Errorf("eval = %q, want %q", strings.TrimSpace(got), tc.Result)
			}
		})
	}
}
