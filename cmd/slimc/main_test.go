package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raymyers/slimexpr/pkg/typeslim"
)

const addDoc = `
op: Lambda
params: [{name: x, type: int}]
body:
  op: Add
  args:
    - {op: Parameter, name: x}
    - {op: Constant, value: 1}
`

func TestVersion(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
}

func TestSubcommandsExist(t *testing.T) {
	cmd := newRootCmd(&strings.Builder{}, &strings.Builder{})
	for _, name := range []string{"narrow", "roundtrip", "eval"} {
		if sub, _, err := cmd.Find([]string{name}); err != nil || sub.Name() != name {
			t.Errorf("expected subcommand %s", name)
		}
	}
	for _, name := range []string{"config", "format", "indent", "strict", "no-color"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected flag --%s to exist", name)
		}
	}
}

func TestNarrowTreeFormat(t *testing.T) {
	path := writeDoc(t, addDoc)
	out, errOut, err := execute("--format", "tree", "--indent", "4", "narrow", path)
	if err != nil {
		t.Fatalf("narrow failed: %v\n%s", err, errOut)
	}
	if !strings.HasPrefix(out, "Lambda(\n    Add(") {
		t.Errorf("tree output not indented by 4:\n%s", out)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "slimc.toml")
	cfg := "[printer]\nformat = \"tree\"\nindent = 1\n\n[aliases]\nduration = \"time.Duration\"\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	path := writeDoc(t, "op: Default\ntype: duration\n")

	out, errOut, err := execute("--config", cfgPath, "narrow", path)
	if err != nil {
		t.Fatalf("narrow failed: %v\n%s", err, errOut)
	}
	if out != "Default(time.Duration)\n" {
		t.Errorf("narrow = %q", out)
	}

	// flags override the file
	out, _, err = execute("--config", cfgPath, "--format", "flat", "narrow", writeDoc(t, addDoc))
	if err != nil || strings.Contains(out, "\n ") {
		t.Errorf("--format flat did not override the config: %q, %v", out, err)
	}
}

func TestConfigErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[aliases]\nwidget = \"example.com/w.Widget\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, errOut, err := execute("--config", bad, "narrow", writeDoc(t, addDoc))
	if err == nil {
		t.Fatal("unresolvable alias accepted")
	}
	if !strings.Contains(errOut, "Config") || !strings.Contains(errOut, "widget") {
		t.Errorf("diagnostic = %q", errOut)
	}

	if _, _, err := execute("--format", "xml", "narrow", writeDoc(t, addDoc)); err == nil {
		t.Error("--format xml accepted")
	}
}

func TestDocumentErrors(t *testing.T) {
	_, errOut, err := execute("narrow", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(errOut, "Document") {
		t.Errorf("missing file: err = %v, diagnostic = %q", err, errOut)
	}

	_, errOut, err = execute("narrow", writeDoc(t, "op: Lambda\nbody:\n  op: Frobnicate\n"))
	if err == nil || !strings.Contains(errOut, "line 3") {
		t.Errorf("unknown op: err = %v, diagnostic = %q", err, errOut)
	}
}

func TestEvalNegativeArgument(t *testing.T) {
	out, errOut, err := execute("eval", writeDoc(t, addDoc), "-3")
	if err != nil {
		t.Fatalf("eval failed: %v\n%s", err, errOut)
	}
	if strings.TrimSpace(out) != "-2" {
		t.Errorf("eval = %q, want -2", out)
	}
}

func TestEvalErrors(t *testing.T) {
	path := writeDoc(t, addDoc)
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"argument count", []string{"eval", path}, "takes 1 arguments, got 0"},
		{"argument type", []string{"eval", path, "abc"}, "argument \"abc\""},
		{"not a lambda", []string{"eval", writeDoc(t, "{op: Constant, value: 1}")}, "not a Lambda"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, err := execute(tt.args...)
			if err == nil {
				t.Fatal("eval succeeded, want an error")
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("diagnostic = %q, want it to contain %q", errOut, tt.want)
			}
		})
	}
}

func TestResolveAliases(t *testing.T) {
	r, err := newRegistry()
	if err != nil {
		t.Fatal(err)
	}
	got, err := resolveAliases(r, map[string]string{"d": "time.Duration", "i": "int"})
	if err != nil {
		t.Fatalf("resolveAliases: %v", err)
	}
	if got["d"].String() != "time.Duration" || got["i"].String() != "int" {
		t.Errorf("resolveAliases = %v", got)
	}
	if _, err := resolveAliases(r, map[string]string{"x": "nope.X"}); err == nil {
		t.Error("unregistered alias target accepted")
	} else if !strings.Contains(err.Error(), typeslim.ErrUnresolved.Error()) {
		t.Errorf("error = %v", err)
	}
}
