package driver

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"spoke/internal/diag"
	"spoke/internal/lexer"
	"spoke/internal/parser"
	"spoke/internal/pipeline"
	"spoke/internal/project"
	"spoke/internal/render"
	"spoke/internal/source"
	"spoke/internal/suite"
	"spoke/internal/token"
	"spoke/internal/trace"
)

// Result is the outcome of generating tests from one file.
type Result struct {
	Path     string
	FileSet  *source.FileSet
	File     *source.File
	Output   suite.Output
	Bag      *diag.Bag // диагностики для вывода, с учётом лимита
	Rendered []byte
	OutPath  string // куда записан Rendered, если Options.Write
	Cached   bool
	Timings  pipeline.Timings
}

// HasErrors reports whether the file produced error diagnostics, including
// ones cut off by the diagnostics limit.
func (r *Result) HasErrors() bool {
	if r == nil {
		return false
	}
	return r.Output.HasErrors() || (r.Bag != nil && r.Bag.HasErrors())
}

// OutputPath returns where the generated tests for input are written.
func OutputPath(input string, opts Options) string {
	base := strings.TrimSuffix(input, opts.extension())
	if base == input {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	out := base + opts.suffix()
	if opts.OutDir != "" {
		out = filepath.Join(opts.OutDir, filepath.Base(out))
	}
	return out
}

// Generate loads path, transforms it and renders the test module. Source
// problems end up in Result.Bag; the returned error is reserved for failures
// to read the input.
func Generate(ctx context.Context, path string, opts Options) (*Result, error) {
	return generate(ctx, path, opts, nil)
}

type stageHook func(stage pipeline.Stage)

func generate(ctx context.Context, path string, opts Options, onStage stageHook) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	_, span := trace.StartFile(ctx, "generate", path)
	defer span.End("")

	enter := func(stage pipeline.Stage) *trace.Span {
		if onStage != nil {
			onStage(stage)
		}
		return span.Child(trace.ScopeNode, string(stage))
	}

	fs, id, err := LoadFile(path, opts.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	res := &Result{
		Path:    path,
		FileSet: fs,
		File:    fs.Get(id),
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}

	key := project.Combine(project.Digest(res.File.Hash), opts.digest())
	if opts.Cache != nil && lookupCache(opts.Cache, key, res) {
		span.Point("cache", "hit")
		span.WithExtra("cached", "true")
		if opts.Write && path != StdinPath {
			sp := enter(pipeline.StageWrite)
			res.Timings.Track(pipeline.StageWrite, func() {
				writeOutput(res, opts)
			})
			sp.End(res.OutPath)
		}
		return finish(res, opts), nil
	}

	gen := suite.New()
	var tokens []token.Token

	sp := enter(pipeline.StageLex)
	res.Timings.Track(pipeline.StageLex, func() {
		tokens = lexer.Tree(res.File, lexer.Options{Reporter: gen})
	})
	sp.WithExtra("tokens", fmt.Sprint(len(tokens))).End("")

	sp = enter(pipeline.StageParse)
	res.Timings.Track(pipeline.StageParse, func() {
		parser.Parse(tokens, gen, parser.Options{Modifiers: opts.Modifiers})
	})
	sp.End("")

	sp = enter(pipeline.StageGenerate)
	res.Timings.Track(pipeline.StageGenerate, func() {
		res.Output = gen.Assemble()
	})
	sp.WithExtra("tests", fmt.Sprint(len(res.Output.Tests))).End("")

	sp = enter(pipeline.StageRender)
	res.Timings.Track(pipeline.StageRender, func() {
		res.Rendered = render.Render(res.Output, opts.Render)
	})
	sp.End("")

	for _, d := range res.Output.Diagnostics {
		res.Bag.Add(d)
	}

	if opts.Write && path != StdinPath {
		sp = enter(pipeline.StageWrite)
		res.Timings.Track(pipeline.StageWrite, func() {
			writeOutput(res, opts)
		})
		sp.End(res.OutPath)
	}

	if opts.Cache != nil {
		if err := opts.Cache.Put(key, outputToPayload(path, res.Output, res.Rendered)); err != nil {
			diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.IOCacheError, source.Span{File: id},
				fmt.Sprintf("failed to store cached output: %v", err)).Emit()
		}
	}
	return finish(res, opts), nil
}

func lookupCache(cache *DiskCache, key project.Digest, res *Result) bool {
	var payload DiskPayload
	ok, err := cache.Get(key, &payload)
	if err != nil {
		diag.ReportWarning(diag.BagReporter{Bag: res.Bag}, diag.IOCacheError, source.Span{File: res.File.ID},
			fmt.Sprintf("ignoring unreadable cache entry: %v", err)).Emit()
		return false
	}
	if !ok {
		return false
	}
	start := time.Now()
	res.Output = payloadToOutput(res.File.ID, &payload)
	res.Rendered = payload.Rendered
	res.Cached = true
	for _, d := range res.Output.Diagnostics {
		res.Bag.Add(d)
	}
	res.Timings.Set(pipeline.StageGenerate, time.Since(start))
	res.Timings.Note(pipeline.StageGenerate, "cached")
	return true
}

func writeOutput(res *Result, opts Options) {
	out := OutputPath(res.Path, opts)
	if dir := filepath.Dir(out); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOWriteError, source.Span{File: res.File.ID},
				fmt.Sprintf("failed to create %s: %v", dir, err)).Emit()
			return
		}
	}
	if err := os.WriteFile(out, res.Rendered, 0o644); err != nil {
		diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOWriteError, source.Span{File: res.File.ID},
			fmt.Sprintf("failed to write %s: %v", out, err)).Emit()
		return
	}
	res.OutPath = out
}

func finish(res *Result, opts Options) *Result {
	if opts.EmitTimings {
		if res.Cached {
			diag.ReportInfo(diag.BagReporter{Bag: res.Bag}, diag.ObsCacheHit, source.Span{File: res.File.ID},
				"reused cached output").Emit()
		}
		appendTimingDiagnostic(res.Bag, res.Path, res.Timings)
	}
	return res
}
