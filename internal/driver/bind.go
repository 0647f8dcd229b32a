package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tsbind/internal/ast"
	"tsbind/internal/binder"
	"tsbind/internal/diag"
	"tsbind/internal/observ"
	"tsbind/internal/source"
	"tsbind/internal/trace"
)

// Options configures BindFiles.
type Options struct {
	// Jobs bounds the number of files bound at once; <= 0 uses GOMAXPROCS.
	Jobs int
	// MaxDiagnostics caps the diagnostics kept per file; <= 0 keeps all.
	MaxDiagnostics int
	Validate       bool
	// BaseDir is the directory paths are rendered relative to.
	BaseDir  string
	Progress ProgressSink
	// Timer receives the load and bind phases. A fresh one is used when nil.
	Timer *observ.Timer
}

// FileResult is the outcome for one input path.
type FileResult struct {
	Path        string
	File        *binder.SourceFile
	Stats       binder.Stats
	Diagnostics *diag.Bag
	// Err is a load failure or an internal bind error. Diagnostics in the
	// source are not errors.
	Err error
}

// Report collects the results of a run in input order.
type Report struct {
	// RunID identifies the run in traces and SARIF logs.
	RunID   string
	FileSet *source.FileSet
	Files   []FileResult
	Timer   *observ.Timer
}

// HasErrors reports whether any file failed or produced an error diagnostic.
func (r *Report) HasErrors() bool {
	for i := range r.Files {
		if r.Files[i].Err != nil {
			return true
		}
		if d := r.Files[i].Diagnostics; d != nil && d.HasErrors() {
			return true
		}
	}
	return false
}

// Err joins the per-file errors.
func (r *Report) Err() error {
	var errs []error
	for i := range r.Files {
		if r.Files[i].Err != nil {
			errs = append(errs, r.Files[i].Err)
		}
	}
	return errors.Join(errs...)
}

// Diagnostics merges the per-file bags in input order.
func (r *Report) Diagnostics() *diag.Bag {
	out := diag.NewBag(0)
	for i := range r.Files {
		if d := r.Files[i].Diagnostics; d != nil {
			out.Merge(d)
		}
	}
	return out
}

// SymbolCount sums the symbols created across all files.
func (r *Report) SymbolCount() int {
	total := 0
	for i := range r.Files {
		total += r.Files[i].Stats.SymbolCount
	}
	return total
}

// BindFiles loads the dumps named by paths and binds them in parallel.
// Failures of single files are recorded in their FileResult; the returned
// error is non-nil only when ctx is cancelled. Cancellation is checked
// between files.
func BindFiles(ctx context.Context, paths []string, opts Options) (*Report, error) {
	tracer := trace.FromContext(ctx)
	runID := uuid.NewString()
	runSpan := trace.Begin(tracer, trace.ScopeDriver, "bind-files", trace.CurrentSpan(ctx)).WithExtra("run", runID)
	ctx = trace.WithSpan(ctx, runSpan)

	timer := opts.Timer
	if timer == nil {
		timer = observ.NewTimer()
	}
	fileSet := source.NewFileSetWithBase(opts.BaseDir)
	report := &Report{
		RunID:   runID,
		FileSet: fileSet,
		Files:   make([]FileResult, len(paths)),
		Timer:   timer,
	}
	for i, p := range paths {
		report.Files[i].Path = p
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	files, err := loadAll(ctx, paths, report, opts)
	if err == nil {
		err = bindAll(ctx, files, report, opts)
	}

	detail := fmt.Sprintf("%d files, %d symbols", len(paths), report.SymbolCount())
	if err != nil {
		detail = err.Error()
	}
	runSpan.End(detail)
	return report, err
}

func jobsFor(opts Options, n int) int {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(min(jobs, n), 1)
}

// loadAll decodes the dumps in parallel and then attaches them to the file
// set in input order, so FileIDs do not depend on scheduling.
func loadAll(ctx context.Context, paths []string, report *Report, opts Options) ([]*ast.File, error) {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "load", trace.CurrentSpan(ctx))
	idx := report.Timer.Begin("load")
	emit(opts.Progress, Event{Stage: StageLoad, Status: StatusWorking})

	files := make([]*ast.File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobsFor(opts, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
			f, err := ReadDump(path)
			if err != nil {
				report.Files[i].Err = fmt.Errorf("load: %w", err)
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(start)})
				return nil
			}
			files[i] = f
			emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusDone, Elapsed: time.Since(start)})
			return nil
		})
	}
	err := g.Wait()

	loaded := 0
	for _, f := range files {
		if f != nil {
			Attach(report.FileSet, f)
			loaded++
		}
	}
	note := fmt.Sprintf("%d/%d files", loaded, len(paths))
	report.Timer.End(idx, note)
	span.End(note)
	if err != nil {
		return nil, err
	}
	return files, nil
}

func bindAll(ctx context.Context, files []*ast.File, report *Report, opts Options) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopePass, "bind", trace.CurrentSpan(ctx))
	emit(opts.Progress, Event{Stage: StageBind, Status: StatusWorking})
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobsFor(opts, len(files)))
	for i, f := range files {
		if f == nil {
			continue
		}
		res := &report.Files[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			emit(opts.Progress, Event{File: res.Path, Stage: StageBind, Status: StatusWorking})
			sf := binder.NewSourceFile(f)
			stats, err := binder.Bind(sf, binder.Options{
				Tracer:     tracer,
				ParentSpan: span.ID(),
				Validate:   opts.Validate,
			})
			report.Timer.Add("bind", stats.Elapsed)

			res.File = sf
			res.Stats = stats
			res.Diagnostics = capDiagnostics(sf.BindDiagnostics, opts.MaxDiagnostics)
			if err != nil {
				res.Err = err
				emit(opts.Progress, Event{File: res.Path, Stage: StageBind, Status: StatusError, Err: err, Elapsed: stats.Elapsed})
				return nil
			}
			emit(opts.Progress, Event{File: res.Path, Stage: StageBind, Status: StatusDone, Elapsed: stats.Elapsed})
			return nil
		})
	}
	err := g.Wait()

	status := StatusDone
	if err != nil {
		status = StatusError
	}
	emit(opts.Progress, Event{Stage: StageBind, Status: status, Err: err, Elapsed: time.Since(start)})
	span.End(fmt.Sprintf("%d symbols", report.SymbolCount()))
	return err
}

func capDiagnostics(bag *diag.Bag, max int) *diag.Bag {
	if max <= 0 || bag.Len() <= max {
		return bag
	}
	out := diag.NewBag(max)
	for _, d := range bag.Items() {
		if !out.Add(d) {
			break
		}
	}
	return out
}
