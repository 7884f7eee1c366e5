package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"spoke/internal/diag"
	"spoke/internal/pipeline"
	"spoke/internal/source"
	"spoke/internal/trace"
)

// ListFiles возвращает отсортированный список всех файлов с расширением ext в директории
func ListFiles(dir, ext string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// скрытые каталоги (.git и т.п.) пропускаем
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// GenerateDir runs Generate for every input file under dir with at most
// opts.Jobs files in flight. Results follow the sorted file order. A file
// that cannot be read yields a result carrying an IOLoadFileError
// diagnostic; only cancellation aborts the run.
func GenerateDir(ctx context.Context, dir string, opts Options, sink pipeline.ProgressSink) ([]*Result, error) {
	files, err := ListFiles(dir, opts.extension())
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, nil
	}

	ctx, span := trace.Start(ctx, trace.ScopePass, "generate-dir")
	span.WithExtra("dir", dir).WithExtra("files", fmt.Sprint(len(files)))
	defer span.End("")

	base := dir
	if abs, err := filepath.Abs(dir); err == nil {
		base = abs
	}
	display := make([]string, len(files))
	for i, path := range files {
		display[i] = pipeline.DisplayName(path, base)
	}
	pipeline.EmitQueued(sink, display)

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]*Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(opts.jobs(), len(files)))

	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			name := display[i]
			started := time.Now()
			hook := func(stage pipeline.Stage) {
				pipeline.Emit(sink, pipeline.Event{File: name, Stage: stage, Status: pipeline.StatusWorking})
			}

			res, err := generate(gctx, path, opts, hook)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				res = loadFailure(path, opts, err)
			}
			results[i] = res

			status := pipeline.StatusDone
			var evErr error
			switch {
			case res.HasErrors():
				status = pipeline.StatusError
				evErr = fmt.Errorf("%s: %d error(s)", name, res.Bag.Count(diag.SevError))
			case res.Cached:
				status = pipeline.StatusCached
			}
			pipeline.Emit(sink, pipeline.Event{
				File:    name,
				Stage:   pipeline.StageWrite,
				Status:  status,
				Err:     evErr,
				Elapsed: time.Since(started),
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func loadFailure(path string, opts Options, err error) *Result {
	fs := source.NewFileSet()
	id := fs.AddVirtual(path, nil)
	bag := diag.NewBag(opts.MaxDiagnostics)
	diag.ReportError(diag.BagReporter{Bag: bag}, diag.IOLoadFileError, source.Span{File: id}, err.Error()).Emit()
	return &Result{
		Path:    path,
		FileSet: fs,
		File:    fs.Get(id),
		Bag:     bag,
	}
}
