// Package trace records spans for the phases of a tsbind run.
//
// Enable it from the command line:
//
//	tsbind bind --trace=- --trace-level=detail src/*.json
//
// Tracers:
//
//   - Nop discards everything and costs nothing
//   - StreamTracer writes events to a file or stderr as they happen
//   - RingTracer keeps the last events for a dump after a failure
//   - MultiTracer combines the two
//
// Scopes nest: ScopeDriver for the command, ScopePass for the load, bind
// and report phases, ScopeModule for one file inside a phase. LevelPhase
// streams the first two and LevelDetail adds per-file spans.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "bind", trace.CurrentSpan(ctx))
//	defer span.End("")
package trace
