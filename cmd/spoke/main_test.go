package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI выполняет корневую команду с args и возвращает stdout, stderr и ошибку.
func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--color", "off"}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeSuite(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		in      string
		want    uiMode
		wantErr bool
	}{
		{"", uiModeAuto, false},
		{"AUTO", uiModeAuto, false},
		{" on ", uiModeOn, false},
		{"off", uiModeOff, false},
		{"sometimes", "", true},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.in)
		if (err != nil) != tc.wantErr {
			t.Fatalf("readUIMode(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("readUIMode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	cases := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"on", true, false},
		{"always", true, false},
		{"never", false, false},
		{"auto", false, false},
		{"rainbow", false, true},
	}
	for _, tc := range cases {
		got, err := resolveColor(tc.in, nil)
		if (err != nil) != tc.wantErr {
			t.Fatalf("resolveColor(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("resolveColor(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestTargetAndStartDir(t *testing.T) {
	if got := targetArg(nil); got != "." {
		t.Errorf("targetArg(nil) = %q", got)
	}
	if got := targetArg([]string{"a.spoke"}); got != "a.spoke" {
		t.Errorf("targetArg = %q", got)
	}
	dir := t.TempDir()
	if got := startDir(dir); got != dir {
		t.Errorf("startDir(dir) = %q", got)
	}
	if got := startDir(filepath.Join(dir, "x.spoke")); got != dir {
		t.Errorf("startDir(file) = %q, want %q", got, dir)
	}
	if got := startDir("-"); got != "." {
		t.Errorf("startDir(-) = %q", got)
	}
}

func TestGenStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeSuite(t, dir, "adds.spoke", `$"adds" 1 + 1 $eq 2;`)

	out, _, err := runCLI(t, "", "gen", "--stdout", path)
	if err != nil {
		t.Fatalf("gen: %v", err)
	}
	for _, want := range []string{"mod spoketest {", "fn adds() {", "assert_eq!(1 + 1, 2);"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "adds_spoke.rs")); !os.IsNotExist(err) {
		t.Errorf("--stdout must not write files, stat err = %v", err)
	}
}

func TestGenWritesAndFails(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "ok.spoke", `$"fine" x $ne y;`)
	writeSuite(t, dir, "bad.spoke", `$"bad" x $ne;`)

	_, stderr, err := runCLI(t, "", "gen", "--ui", "off", dir)
	if err == nil || !strings.Contains(err.Error(), "errors in 1 of 2 file(s)") {
		t.Fatalf("gen error = %v", err)
	}
	if !strings.Contains(stderr, "no code found for the right hand side") {
		t.Errorf("stderr misses diagnostic:\n%s", stderr)
	}
	data, err := os.ReadFile(filepath.Join(dir, "ok_spoke.rs"))
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	if !strings.Contains(string(data), "assert_ne!(x, y);") {
		t.Errorf("generated:\n%s", data)
	}
}

func TestGenFromStdin(t *testing.T) {
	out, _, err := runCLI(t, `$"piped" true;`, "gen", "-")
	if err != nil {
		t.Fatalf("gen -: %v", err)
	}
	if !strings.Contains(out, "fn piped() {") || !strings.Contains(out, "assert!(true);") {
		t.Errorf("output:\n%s", out)
	}
}

func TestListYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeSuite(t, dir, "list.spoke", "$\"outer\" {\n    $\"inner\" ok();\n}\n")

	out, _, err := runCLI(t, "", "list", "--format", "yaml", path)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"name: outer_inner", "line: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml misses %q:\n%s", want, out)
		}
	}
}

func TestInitThenCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "proj")

	out, _, err := runCLI(t, "", "init", dir)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if !strings.Contains(out, "spoke.toml") || !strings.Contains(out, "example.spoke") {
		t.Errorf("init output:\n%s", out)
	}
	if _, _, err := runCLI(t, "", "init", dir); err == nil {
		t.Fatal("second init must fail")
	}

	out, _, err = runCLI(t, "", "check", "--format", "json", dir)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	var report checkReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.Count != 0 || len(report.Files) != 1 {
		t.Fatalf("report = %+v", report)
	}
	if got := report.Files[0].Tests; got != 3 {
		t.Errorf("tests = %d, want 3", got)
	}
	if _, err := os.Stat(filepath.Join(dir, "example_spoke.rs")); !os.IsNotExist(err) {
		t.Errorf("check must not write files, stat err = %v", err)
	}
}

func TestCheckFailsOnBadManifest(t *testing.T) {
	dir := t.TempDir()
	writeSuite(t, dir, "spoke.toml", "[generate]\nmodul = \"x\"\n")
	path := writeSuite(t, dir, "a.spoke", `$"a" ok();`)

	_, _, err := runCLI(t, "", "check", path)
	if err == nil || !strings.HasPrefix(err.Error(), "IO6004") {
		t.Fatalf("error = %v", err)
	}
}

func TestTokenizeJSONFromStdin(t *testing.T) {
	out, _, err := runCLI(t, `$"t" f(x);`, "tokenize", "--format", "json", "--tree", "-")
	if err != nil {
		t.Fatalf("tokenize: %v", err)
	}
	var toks []map[string]any
	if err := json.Unmarshal([]byte(out), &toks); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(toks) == 0 {
		t.Fatal("no tokens")
	}
}

func TestVersionJSON(t *testing.T) {
	out, _, err := runCLI(t, "", "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Tool != "spoke" || payload.GitCommit == "" || payload.BuildDate == "" {
		t.Errorf("payload = %+v", payload)
	}
	if _, _, err := runCLI(t, "", "version", "--format", "xml"); err == nil {
		t.Error("unknown format must fail")
	}
}

func TestCacheInfoAndClean(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	dir := t.TempDir()
	path := writeSuite(t, dir, "c.spoke", `$"c" ok();`)

	if _, _, err := runCLI(t, "", "gen", "--stdout", "--disk-cache", path); err != nil {
		t.Fatalf("gen: %v", err)
	}
	out, _, err := runCLI(t, "", "cache", "info")
	if err != nil {
		t.Fatalf("cache info: %v", err)
	}
	if !strings.Contains(out, "entries: 1") {
		t.Errorf("cache info:\n%s", out)
	}
	out, _, err = runCLI(t, "", "cache", "clean")
	if err != nil {
		t.Fatalf("cache clean: %v", err)
	}
	if !strings.Contains(out, "removed 1 cached entries") {
		t.Errorf("cache clean:\n%s", out)
	}
}

func TestFixLowercasesModifier(t *testing.T) {
	dir := t.TempDir()
	path := writeSuite(t, dir, "f.spoke", `$"a" x $EQ y; $"b" x $NE y;`)

	out, _, err := runCLI(t, "", "fix", "--all", path)
	if err != nil {
		t.Fatalf("fix: %v", err)
	}
	if !strings.Contains(out, "2 fix(es) applied") {
		t.Errorf("output:\n%s", out)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `$"a" x $eq y; $"b" x $ne y;` {
		t.Errorf("content = %q", got)
	}

	out, _, err = runCLI(t, "", "fix", path)
	if err != nil {
		t.Fatalf("second fix: %v", err)
	}
	if !strings.Contains(out, "0 fix(es) applied") {
		t.Errorf("output:\n%s", out)
	}
}

func TestProfilingFlags(t *testing.T) {
	dir := t.TempDir()
	cpu := filepath.Join(dir, "cpu.pprof")
	if _, _, err := runCLI(t, "", "--cpu-profile", cpu, "version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	if info, err := os.Stat(cpu); err != nil || info.Size() == 0 {
		t.Errorf("cpu profile not written: %v", err)
	}
}

func TestTraceClosedWhenCommandFails(t *testing.T) {
	dir := t.TempDir()
	bad := writeSuite(t, dir, "bad.spoke", `$"bad" x $ne;`)
	out := filepath.Join(dir, "run.ndjson")

	if _, _, err := runCLI(t, "", "--trace", out, "check", bad); err == nil {
		t.Fatal("check of a broken suite must fail")
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("trace output: %v", err)
	}
	last := strings.TrimSpace(string(data))
	last = last[strings.LastIndex(last, "\n")+1:]
	var ev struct {
		Kind string `json:"kind"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal([]byte(last), &ev); err != nil {
		t.Fatalf("last event %q: %v", last, err)
	}
	if ev.Kind != "end" || ev.Name != "spoke check" {
		t.Errorf("last event = %+v, want the end of the driver span", ev)
	}
}
