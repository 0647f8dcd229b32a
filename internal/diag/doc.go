// Package diag defines the diagnostic model shared by the binder, the driver
// and the renderers.
//
// A Diagnostic carries a Severity, a numeric Code (rendered as "TSnnnn"), a
// message, the primary source.Span and optional Notes pointing at related
// locations, e.g. the earlier declarations in a duplicate-identifier report.
//
// Producers emit through a Reporter, usually with the ReportBuilder helpers:
//
//	diag.ReportError(r, diag.BindDuplicateIdentifier, span, msg).
//		WithNote(prev, "'x' was also declared here.").
//		Emit()
//
// BagReporter collects into a Bag, which keeps insertion order. Rendering
// lives in internal/diagfmt.
package diag
