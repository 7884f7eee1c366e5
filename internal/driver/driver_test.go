package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"spoke/internal/diag"
	"spoke/internal/driver"
	"spoke/internal/pipeline"
	"spoke/internal/token"
	"spoke/internal/trace"
)

const addsSrc = `$"adds" 1 + 1 $eq 2;`

const addsOut = `#[cfg(test)]
#[allow(unused_mut)]
#[allow(unused_variables)]
mod spoketest {
    #[test]
    fn adds() {
        assert_eq!(1 + 1, 2);
    }
}
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateRendersFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "adds.spoke", addsSrc)

	res, err := driver.Generate(context.Background(), path, driver.Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := string(res.Rendered); got != addsOut {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, addsOut)
	}
	if res.HasErrors() || res.Cached || res.OutPath != "" {
		t.Errorf("unexpected result state: errors=%v cached=%v out=%q", res.HasErrors(), res.Cached, res.OutPath)
	}
	for _, stage := range []pipeline.Stage{pipeline.StageLex, pipeline.StageParse, pipeline.StageGenerate, pipeline.StageRender} {
		if !res.Timings.Has(stage) {
			t.Errorf("missing timing for %s", stage)
		}
	}
	if res.Timings.Has(pipeline.StageWrite) {
		t.Error("write stage recorded without Write")
	}
}

func TestGenerateMissingFile(t *testing.T) {
	_, err := driver.Generate(context.Background(), filepath.Join(t.TempDir(), "nope.spoke"), driver.Options{})
	if err == nil || !strings.Contains(err.Error(), "failed to load") {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateReportsDiagnostics(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.spoke", `$"t" a $EQ b; $"u" x $ne;`)

	res, err := driver.Generate(context.Background(), path, driver.Options{MaxDiagnostics: 1, EmitTimings: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Output.Diagnostics) != 2 {
		t.Fatalf("output diagnostics = %d, want 2", len(res.Output.Diagnostics))
	}
	items := res.Bag.Items()
	if items[0].Code != diag.GrmMiscasedModifier {
		t.Errorf("first diagnostic = %s", items[0].Code.ID())
	}
	if res.Bag.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", res.Bag.Dropped())
	}
	if last := items[len(items)-1]; last.Code != diag.ObsTimings || len(last.Notes) != 1 {
		t.Errorf("timings diagnostic missing: %+v", last)
	}
	// ошибка отрезана лимитом, но остаётся в Output и в выводе
	if res.Bag.HasErrors() || !res.HasErrors() {
		t.Errorf("bag errors=%v result errors=%v", res.Bag.HasErrors(), res.HasErrors())
	}
	if !strings.Contains(string(res.Rendered), "compile_error!") {
		t.Errorf("rendered output lacks the error:\n%s", res.Rendered)
	}
}

func TestGenerateWritesOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "adds.spoke", addsSrc)
	outDir := filepath.Join(dir, "out")

	res, err := driver.Generate(context.Background(), path, driver.Options{Write: true, OutDir: outDir})
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(outDir, "adds_spoke.rs")
	if res.OutPath != want {
		t.Fatalf("OutPath = %q, want %q", res.OutPath, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != addsOut {
		t.Errorf("written:\n%s", data)
	}
	if !res.Timings.Has(pipeline.StageWrite) {
		t.Error("write stage not timed")
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in   string
		opts driver.Options
		want string
	}{
		{"a/b.spoke", driver.Options{}, "a/b_spoke.rs"},
		{"a/b.txt", driver.Options{}, "a/b_spoke.rs"},
		{"a/b.t", driver.Options{Extension: ".t", Suffix: ".rs"}, "a/b.rs"},
		{"a/b.spoke", driver.Options{OutDir: "out"}, filepath.Join("out", "b_spoke.rs")},
	}
	for _, tt := range tests {
		if got := driver.OutputPath(tt.in, tt.opts); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateUsesCache(t *testing.T) {
	path := writeFile(t, t.TempDir(), "adds.spoke", addsSrc)
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := driver.Options{Cache: cache}

	first, err := driver.Generate(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached {
		t.Fatal("first run reported a cache hit")
	}
	second, err := driver.Generate(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || string(second.Rendered) != addsOut {
		t.Fatalf("second run: cached=%v rendered=%q", second.Cached, second.Rendered)
	}
	if len(second.Output.Tests) != 1 || second.Output.Tests[0].Name != "adds" {
		t.Errorf("cached tests = %+v", second.Output.Tests)
	}

	// другие опции рендера дают другой ключ
	other := opts
	other.Render.Module = "checks"
	third, err := driver.Generate(context.Background(), path, other)
	if err != nil {
		t.Fatal(err)
	}
	if third.Cached {
		t.Error("different options hit the cache")
	}

	if n, _, err := cache.Entries(); err != nil || n != 2 {
		t.Errorf("entries = %d, %v", n, err)
	}
	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if n, _, _ := cache.Entries(); n != 0 {
		t.Errorf("entries after DropAll = %d", n)
	}
}

func TestGenerateCachedDiagnosticsSurvive(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dup.spoke", `$"a" x; $"a" y;`)
	cache, err := driver.OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	opts := driver.Options{Cache: cache}
	if _, err := driver.Generate(context.Background(), path, opts); err != nil {
		t.Fatal(err)
	}
	res, err := driver.Generate(context.Background(), path, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Cached || !res.HasErrors() {
		t.Fatalf("cached=%v errors=%v", res.Cached, res.HasErrors())
	}
	d := res.Bag.Items()[0]
	if d.Code != diag.NamDuplicateName || len(d.Notes) != 1 || d.Primary.File != res.File.ID {
		t.Errorf("restored diagnostic = %+v", d)
	}
}

func TestGenerateDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.spoke", `$"b" x;`)
	writeFile(t, dir, "a.spoke", `$"a" y;`)
	writeFile(t, dir, "nested/c.spoke", `$"c" $ne;`)
	writeFile(t, dir, "skip.txt", `$"skip" z;`)
	writeFile(t, dir, ".hidden/d.spoke", `$"d" z;`)
	if err := os.Symlink(filepath.Join(dir, "missing"), filepath.Join(dir, "broken.spoke")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	var mu sync.Mutex
	final := map[string]pipeline.Status{}
	var queued []string
	sink := pipeline.FuncSink(func(ev pipeline.Event) {
		mu.Lock()
		defer mu.Unlock()
		if ev.Status == pipeline.StatusQueued {
			queued = append(queued, ev.File)
		}
		if ev.Status.Terminal() {
			final[ev.File] = ev.Status
		}
	})

	results, err := driver.GenerateDir(context.Background(), dir, driver.Options{Jobs: 2}, sink)
	if err != nil {
		t.Fatalf("GenerateDir: %v", err)
	}

	var paths []string
	for _, res := range results {
		rel, _ := filepath.Rel(dir, res.Path)
		paths = append(paths, filepath.ToSlash(rel))
	}
	want := []string{"a.spoke", "b.spoke", "broken.spoke", "nested/c.spoke"}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	if !slices.Equal(queued, want) {
		t.Errorf("queued = %v", queued)
	}

	wantStatus := map[string]pipeline.Status{
		"a.spoke":        pipeline.StatusDone,
		"b.spoke":        pipeline.StatusDone,
		"broken.spoke":   pipeline.StatusError,
		"nested/c.spoke": pipeline.StatusError,
	}
	for file, status := range wantStatus {
		if final[file] != status {
			t.Errorf("%s: status %q, want %q", file, final[file], status)
		}
	}
	if code := results[2].Bag.Items()[0].Code; code != diag.IOLoadFileError {
		t.Errorf("broken file code = %s", code.ID())
	}
}

func TestGenerateDirCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.spoke", `$"a" y;`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := driver.GenerateDir(ctx, dir, driver.Options{}, nil); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestGenerateTraces(t *testing.T) {
	path := writeFile(t, t.TempDir(), "adds.spoke", addsSrc)
	ring := trace.NewRingTracer(64, trace.LevelDebug)
	ctx := trace.WithTracer(context.Background(), ring)

	if _, err := driver.Generate(ctx, path, driver.Options{}); err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, ev := range ring.Snapshot() {
		if ev.File != path {
			t.Errorf("%s %s: file = %q, want %q", ev.Kind, ev.Name, ev.File, path)
		}
		if ev.Kind == trace.KindSpanBegin {
			names = append(names, ev.Name)
		}
	}
	want := []string{"generate", "lex", "parse", "generate", "render"}
	if !slices.Equal(names, want) {
		t.Errorf("spans = %v, want %v", names, want)
	}
}

func TestTokenizeFromStdin(t *testing.T) {
	fs, id, err := driver.LoadFile(driver.StdinPath, strings.NewReader("f(a) \"x"))
	if err != nil {
		t.Fatal(err)
	}

	flat := driver.Tokenize(fs, id, 0)
	if n := len(flat.Tokens); n == 0 || flat.Tokens[n-1].Kind != token.EOF {
		t.Fatalf("flat stream must end with EOF: %v", flat.Tokens)
	}
	if !flat.Bag.HasErrors() {
		t.Error("unterminated string not reported")
	}

	tree := driver.TokenizeTree(fs, id, 0)
	// незакрытая строка в дерево не попадает
	if len(tree.Tokens) != 2 || tree.Tokens[1].Kind != token.Group {
		t.Errorf("tree = %v", tree.Tokens)
	}
	if flat.File.Path != "<stdin>" {
		t.Errorf("path = %q", flat.File.Path)
	}
}
