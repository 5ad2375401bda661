package tracing

import (
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Span names.
const (
	SpanDocumentLoad   = "document.load"
	SpanDocumentSave   = "document.save"
	SpanDocumentRevert = "document.revert"
	SpanDocumentEdit   = "document.edit"
	SpanEvaluate       = "connector.evaluate"
)

// Attribute keys.
const (
	AttrDocumentFile    = "document.file"
	AttrDocumentPath    = "document.path"
	AttrDocumentChanges = "document.changes"
	AttrEntries         = "tracker.entries"
	AttrGeneration      = "tracker.generation"
	AttrConnected       = "connector.connected"
	AttrFieldID         = "connector.field_id"
	AttrChangeID        = "connector.change_id"
)

// End finishes span, marking it failed when err is non-nil.
func End(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
