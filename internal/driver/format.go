package driver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/natefinch/atomic"
	"golang.org/x/sync/errgroup"

	"bibfmt/internal/diag"
	"bibfmt/internal/engine"
	"bibfmt/internal/observ"
	"bibfmt/internal/source"
	"bibfmt/internal/trace"
)

// ErrNoFiles is returned when the paths name no .bib file.
var ErrNoFiles = errors.New("no .bib files found")

// Options configures FormatPaths.
type Options struct {
	Op     engine.Op
	Config engine.Config
	// Check leaves files untouched; Changed reports whether they would change.
	Check bool
	// Stdout returns the output in Result.Formatted instead of writing files.
	Stdout bool
	// Jobs bounds parallelism; 0 means GOMAXPROCS.
	Jobs     int
	Cache    *Cache
	Progress ProgressSink
}

// Result captures the result of processing a single file.
type Result struct {
	Path        string
	FileID      source.FileID
	Changed     bool
	Cached      bool
	Entries     int
	Formatted   []byte
	Diagnostics []diag.Diagnostic
	Timings     observ.Report
	Err         error
}

// Report is the outcome of a whole run.
type Report struct {
	FileSet *source.FileSet
	Results []Result
	// Timings merges the per-file stage timings.
	Timings observ.Report
}

// Changed counts files that changed (or would change in check mode).
func (r *Report) Changed() int {
	n := 0
	for _, res := range r.Results {
		if res.Changed {
			n++
		}
	}
	return n
}

// Failed counts files that could not be read or written.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// FormatPaths runs opts.Op over every .bib file named by paths, in parallel.
// Per-file I/O failures end up in Result.Err; the returned error is reserved
// for invalid configuration, an empty file list and cancellation.
func FormatPaths(ctx context.Context, paths []string, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	files, err := CollectFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	ctx, driverSpan := trace.Start(ctx, trace.ScopeDriver, opts.Op.String())
	driverSpan.WithExtra("files", fmt.Sprint(len(files)))

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Файлы загружаются последовательно: FileSet не потокобезопасен на запись.
	fileSet := source.NewFileSet()
	results := make([]Result, len(files))
	ids := make([]source.FileID, len(files))
	for i, path := range files {
		results[i].Path = path
		id, loadErr := fileSet.Load(path)
		if loadErr != nil {
			// пустой виртуальный файл, чтобы диагностика указывала на путь
			id = fileSet.AddVirtual(path, nil)
			results[i].FileID = id
			results[i].Err = loadErr
			results[i].Diagnostics = []diag.Diagnostic{
				diag.Error(diag.IOLoadFileError, source.Span{File: id}, "failed to load file: "+loadErr.Error()),
			}
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr})
			continue
		}
		ids[i] = id
		results[i].FileID = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i := range files {
		if results[i].Err != nil {
			continue
		}
		sf := fileSet.Get(ids[i])
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return processFile(gctx, sf, opts, &results[i])
		})
	}
	waitErr := g.Wait()

	report := &Report{FileSet: fileSet, Results: results}
	for _, res := range results {
		report.Timings.Merge(res.Timings)
	}
	driverSpan.End(fmt.Sprintf("%d changed", report.Changed()))
	if waitErr != nil {
		return report, waitErr
	}
	return report, nil
}

// FormatBytes runs opts.Op over content that did not come from a file
// (stdin). Check and Stdout have no effect; the output is always returned.
func FormatBytes(ctx context.Context, name string, content []byte, opts Options) (*Report, error) {
	fileSet := source.NewFileSet()
	id := fileSet.LoadBytes(name, content)
	opts.Stdout = true
	opts.Cache = nil
	res := Result{Path: name, FileID: id}
	if err := processFile(ctx, fileSet.Get(id), opts, &res); err != nil {
		return nil, err
	}
	return &Report{FileSet: fileSet, Results: []Result{res}, Timings: res.Timings}, nil
}

func processFile(ctx context.Context, sf *source.File, opts Options, res *Result) error {
	start := time.Now()
	ctx, span := trace.Start(trace.WithFile(ctx, sf.Path), trace.ScopeFile, "file")

	fail := func(stage Stage, code diag.Code, err error) {
		res.Err = err
		res.Diagnostics = append(res.Diagnostics,
			diag.Error(code, source.Span{File: sf.ID}, err.Error()))
		emit(opts.Progress, Event{File: res.Path, Stage: stage, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		span.Fail(err)
	}

	original := sf.RestoreEncoding(bytes.Clone(sf.Content))
	var key Digest
	if opts.Cache != nil {
		key = CacheKey(opts.Op, opts.Config, original)
		var payload CachePayload
		if hit, err := opts.Cache.Get(key, &payload); err == nil && hit {
			res.Cached = true
			res.Entries = payload.Entries
			if opts.Stdout {
				res.Formatted = original
			}
			trace.Mark(ctx, trace.ScopeFile, "cache-hit", key.String())
			emit(opts.Progress, Event{File: res.Path, Stage: StageFormat, Status: StatusCached, Elapsed: time.Since(start)})
			span.End("cached")
			return nil
		}
	}

	emit(opts.Progress, Event{File: res.Path, Stage: StageFormat, Status: StatusWorking})
	out, err := engine.Run(ctx, opts.Op, sf, opts.Config)
	if err != nil {
		// конфигурация проверена заранее, сюда попадаем только при отмене
		span.Fail(err)
		return err
	}
	res.Diagnostics = append(res.Diagnostics, out.Diagnostics...)
	res.Timings = out.Timings
	res.Entries = out.Entries
	res.Changed = out.Changed
	formatted := sf.RestoreEncoding(out.Text)

	switch {
	case opts.Stdout:
		res.Formatted = formatted
	case opts.Check:
	case res.Changed:
		emit(opts.Progress, Event{File: res.Path, Stage: StageWrite, Status: StatusWorking})
		if err := atomic.WriteFile(sf.Path, bytes.NewReader(formatted)); err != nil {
			fail(StageWrite, diag.IOWriteFileError, fmt.Errorf("failed to write %s: %w", sf.Path, err))
			return nil
		}
	}

	if opts.Cache != nil && len(out.Diagnostics) == 0 {
		// результат идемпотентен: записанный файл уже каноничен
		canonical := res.Changed && !opts.Check && !opts.Stdout
		if !res.Changed || canonical {
			if canonical {
				key = CacheKey(opts.Op, opts.Config, formatted)
			}
			payload := CachePayload{Op: opts.Op.String(), Path: sf.Path, Entries: out.Entries, Size: len(formatted)}
			if err := opts.Cache.Put(key, &payload); err != nil {
				trace.Mark(ctx, trace.ScopeFile, "cache-put-failed", err.Error())
			}
		}
	}

	status := StatusUnchanged
	if res.Changed {
		status = StatusDone
	}
	emit(opts.Progress, Event{File: res.Path, Stage: StageFormat, Status: status, Elapsed: time.Since(start)})
	span.End(string(status))
	return nil
}
