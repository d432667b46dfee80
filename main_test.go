/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestMain(m *testing.M) {
	// Build the binary before running tests
	wd := mustGetwd()
	cmd := exec.Command("go", "build", "-o", "closuredeps_test", ".")
	cmd.Dir = wd
	if out, err := cmd.CombinedOutput(); err != nil {
		panic("failed to build test binary: " + err.Error() + "\n" + string(out))
	}
	code := m.Run()
	_ = os.Remove(filepath.Join(wd, "closuredeps_test"))
	os.Exit(code)
}

func mustGetwd() string {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return wd
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	binary := filepath.Join(mustGetwd(), "closuredeps_test")
	cmd := exec.Command(binary, args...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("Failed to run CLI: %v", err)
		}
	}

	return stdout, stderr, exitCode
}

var (
	simpleDir   = filepath.Join("testdata", "calcdeps", "simple")
	closureRoot = filepath.Join(simpleDir, "closure")
	srcRoot     = filepath.Join(simpleDir, "src")
)

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func TestCalcList(t *testing.T) {
	stdout, stderr, code := runCLI(t, "calc", "-p", closureRoot, "-p", srcRoot, filepath.Join(srcRoot, "c.js"))
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	want := []string{
		filepath.Join(closureRoot, "goog", "base.js"),
		filepath.Join(srcRoot, "a.js"),
		filepath.Join(srcRoot, "b.js"),
		filepath.Join(srcRoot, "c.js"),
	}
	got := lines(stdout)
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Expected:\n%s\nGot:\n%s", strings.Join(want, "\n"), stdout)
	}
}

func TestCalcMixedPathForms(t *testing.T) {
	absSimple, err := filepath.Abs(simpleDir)
	if err != nil {
		t.Fatal(err)
	}
	absBase := filepath.Join(absSimple, "closure", "goog", "base.js")
	want := []string{
		filepath.Join(closureRoot, "goog", "base.js"),
		filepath.Join(srcRoot, "a.js"),
		filepath.Join(srcRoot, "b.js"),
		filepath.Join(srcRoot, "c.js"),
	}

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "absolute path, relative input",
			args: []string{"calc", "-p", absSimple, filepath.Join(srcRoot, "c.js")},
		},
		{
			name: "absolute base, relative paths",
			args: []string{"calc", "--base", absBase, "-p", closureRoot, "-p", srcRoot, filepath.Join(srcRoot, "c.js")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCLI(t, tt.args...)
			if code != 0 {
				t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
			}
			got := lines(stdout)
			if strings.Join(got, "\n") != strings.Join(want, "\n") {
				t.Errorf("Expected:\n%s\nGot:\n%s", strings.Join(want, "\n"), stdout)
			}
		})
	}
}

func TestCalcNamespaceInput(t *testing.T) {
	stdout, stderr, code := runCLI(t, "calc", "-p", simpleDir, "--input", "ns:b")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	got := lines(stdout)
	if len(got) != 3 || !strings.HasSuffix(got[2], "b.js") {
		t.Errorf("Expected base.js, a.js, b.js; got %v", got)
	}
}

func TestCalcDepsMode(t *testing.T) {
	stdout, stderr, code := runCLI(t, "calc", "-p", closureRoot, "-p", srcRoot, filepath.Join(srcRoot, "c.js"), "-m", "deps")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	golden, err := os.ReadFile(filepath.Join("testdata", "depswriter", "simple.golden.js"))
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}
	if stdout != string(golden) {
		t.Errorf("Expected:\n%s\nGot:\n%s", golden, stdout)
	}
}

func TestCalcScriptMode(t *testing.T) {
	stdout, stderr, code := runCLI(t, "calc", "-p", simpleDir, filepath.Join(srcRoot, "b.js"), "-m", "script")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	baseAt := strings.Index(stdout, "@provideGoog")
	aAt := strings.Index(stdout, "goog.provide('a');")
	bAt := strings.Index(stdout, "goog.provide('b');")
	if baseAt < 0 || aAt < baseAt || bAt < aAt {
		t.Errorf("Expected base.js, a.js then b.js content, got:\n%s", stdout)
	}
	if strings.Contains(stdout, "goog.provide('c');") {
		t.Error("Expected c.js to be left out")
	}
}

func TestCalcHTMLModeOutputFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "index.html")
	absSrc, err := filepath.Abs(srcRoot)
	if err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCLI(t, "calc", "-p", absSrc, filepath.Join(absSrc, "b.js"),
		"-m", "html", "--root", absSrc, "--title", "b tests", "-o", tmpFile)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if stdout != "" {
		t.Errorf("Expected no stdout when writing to file, got: %s", stdout)
	}

	content, err := os.ReadFile(tmpFile)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	page := string(content)
	if !strings.Contains(page, "<title>b tests</title>") {
		t.Errorf("Expected page title, got %s", page)
	}
	if !strings.Contains(page, `<script src="a.js"></script><script src="b.js"></script>`) {
		t.Errorf("Expected ordered script tags, got %s", page)
	}
}

func TestCalcMissingProvider(t *testing.T) {
	_, stderr, code := runCLI(t, "calc", filepath.Join("testdata", "calcdeps", "missing", "x.js"))
	if code == 0 {
		t.Fatal("Expected non-zero exit code for missing provider")
	}
	if !strings.Contains(stderr, "missing provider for missing.ns") {
		t.Errorf("Expected missing provider message, got: %s", stderr)
	}
}

func TestCalcCycle(t *testing.T) {
	dir := filepath.Join("testdata", "calcdeps", "cycle")
	_, stderr, code := runCLI(t, "calc", "-p", dir, filepath.Join(dir, "main.js"))
	if code == 0 {
		t.Fatal("Expected non-zero exit code for cycle")
	}
	if !strings.Contains(stderr, "cyclic dependency") {
		t.Errorf("Expected cycle message, got: %s", stderr)
	}
}

func TestCalcInvalidMode(t *testing.T) {
	_, stderr, code := runCLI(t, "calc", "-p", simpleDir, filepath.Join(srcRoot, "a.js"), "-m", "compiled")
	if code == 0 {
		t.Fatal("Expected non-zero exit code for invalid mode")
	}
	if !strings.Contains(stderr, `invalid mode "compiled"`) {
		t.Errorf("Expected invalid mode message, got: %s", stderr)
	}
}

func TestCalcNoInputs(t *testing.T) {
	_, stderr, code := runCLI(t, "calc", "-p", simpleDir)
	if code == 0 {
		t.Fatal("Expected non-zero exit code without inputs")
	}
	if !strings.Contains(stderr, "no inputs") {
		t.Errorf("Expected no inputs message, got: %s", stderr)
	}
}

func TestDeps(t *testing.T) {
	stdout, stderr, code := runCLI(t, "deps", simpleDir, "--omit", filepath.Join(srcRoot, "unused.js"))
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	golden, err := os.ReadFile(filepath.Join("testdata", "depswriter", "simple.golden.js"))
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}
	if stdout != string(golden) {
		t.Errorf("Expected:\n%s\nGot:\n%s", golden, stdout)
	}
}

func TestDepsOmitAbsolutePath(t *testing.T) {
	unused, err := filepath.Abs(filepath.Join(srcRoot, "unused.js"))
	if err != nil {
		t.Fatal(err)
	}
	stdout, stderr, code := runCLI(t, "deps", simpleDir, "--omit", unused)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	golden, err := os.ReadFile(filepath.Join("testdata", "depswriter", "simple.golden.js"))
	if err != nil {
		t.Fatalf("Failed to read golden file: %v", err)
	}
	if stdout != string(golden) {
		t.Errorf("Expected:\n%s\nGot:\n%s", golden, stdout)
	}
}

func TestDepsPrefix(t *testing.T) {
	stdout, stderr, code := runCLI(t, "deps", "-p", srcRoot, "--root", srcRoot, "--prefix", "/js/")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "goog.addDependency('/js/unused.js', ['unused'], ['a']);") {
		t.Errorf("Expected prefixed unresolved file, got:\n%s", stdout)
	}
}

func TestDepsNoRoots(t *testing.T) {
	_, stderr, code := runCLI(t, "deps")
	if code == 0 {
		t.Fatal("Expected non-zero exit code without roots")
	}
	if !strings.Contains(stderr, "no roots") {
		t.Errorf("Expected no roots message, got: %s", stderr)
	}
}

func TestScan(t *testing.T) {
	stdout, stderr, code := runCLI(t, "scan", srcRoot)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}

	var records []struct {
		Path     string   `json:"path"`
		Provides []string `json:"provides"`
		Requires []string `json:"requires"`
	}
	if err := json.Unmarshal([]byte(stdout), &records); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nstdout: %s", err, stdout)
	}
	if len(records) != 4 {
		t.Fatalf("Expected 4 records, got %d", len(records))
	}
	if filepath.Base(records[1].Path) != "b.js" || records[1].Requires[0] != "a" {
		t.Errorf("Expected b.js requiring a, got %+v", records[1])
	}
}

func TestScanASTParser(t *testing.T) {
	stdout, stderr, code := runCLI(t, "scan", filepath.Join("testdata", "source", "false-positives.js"), "--parser", "ast")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if strings.Contains(stdout, "commented.out") || strings.Contains(stdout, "in.string") {
		t.Errorf("Expected comments and strings to be ignored, got:\n%s", stdout)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "closuredeps.yaml")
	absSrc, err := filepath.Abs(srcRoot)
	if err != nil {
		t.Fatal(err)
	}
	content := "mode: deps\nroot: " + absSrc + "\npath:\n  - " + absSrc + "\n"
	if err := os.WriteFile(config, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCLI(t, "calc", "--config", config, filepath.Join(absSrc, "b.js"))
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stdout, "goog.addDependency('b.js', ['b'], ['a']);") {
		t.Errorf("Expected deps output configured by file, got:\n%s", stdout)
	}
}

func TestConfigFilePluralKeys(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "closuredeps.yaml")
	absSimple, err := filepath.Abs(simpleDir)
	if err != nil {
		t.Fatal(err)
	}
	content := "paths:\n  - " + absSimple + "\ninputs:\n  - ns:b\n"
	if err := os.WriteFile(config, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := runCLI(t, "calc", "--config", config)
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	got := lines(stdout)
	if len(got) != 3 || !strings.HasSuffix(got[2], "b.js") {
		t.Errorf("Expected base.js, a.js, b.js from config paths, got %v", got)
	}
}

func TestVerboseLogsToStderr(t *testing.T) {
	stdout, stderr, code := runCLI(t, "calc", "-v", "-p", simpleDir, filepath.Join(srcRoot, "a.js"))
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.Contains(stderr, "ordered") {
		t.Errorf("Expected debug output on stderr, got: %s", stderr)
	}
	if strings.Contains(stdout, "ordered") {
		t.Error("Expected logs to stay out of stdout")
	}
}

func TestVersion(t *testing.T) {
	stdout, stderr, code := runCLI(t, "version")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d\nstderr: %s", code, stderr)
	}
	if !strings.HasPrefix(stdout, "closuredeps ") {
		t.Errorf("Expected version output, got: %s", stdout)
	}

	stdout, _, code = runCLI(t, "version", "--format", "json")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	var info map[string]string
	if err := json.Unmarshal([]byte(stdout), &info); err != nil {
		t.Fatalf("Failed to parse JSON output: %v", err)
	}
	if info["version"] == "" {
		t.Error("Expected version field")
	}
}

func TestHelp(t *testing.T) {
	stdout, _, code := runCLI(t, "--help")
	if code != 0 {
		t.Fatalf("Expected exit code 0, got %d", code)
	}
	for _, name := range []string{"calc", "deps", "scan", "version"} {
		if !strings.Contains(stdout, name) {
			t.Errorf("Expected %s command in help output", name)
		}
	}
}
