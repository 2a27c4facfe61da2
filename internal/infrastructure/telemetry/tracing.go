package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of service spans
const TracerName = "github.com/arghosts/affiliate-shop-sub000"

// Attribute keys of service spans
const (
	attrProductID   = attribute.Key("jagopilih.product_id")
	attrSlug        = attribute.Key("jagopilih.slug")
	attrLinkCount   = attribute.Key("jagopilih.link_count")
	attrImageCount  = attribute.Key("jagopilih.image_count")
	attrFileName    = attribute.Key("jagopilih.import.file_name")
	attrRowsTotal   = attribute.Key("jagopilih.import.rows_total")
	attrRowsCreated = attribute.Key("jagopilih.import.rows_created")
	attrRowsFailed  = attribute.Key("jagopilih.import.rows_failed")
)

func ProductID(id string) attribute.KeyValue { return attrProductID.String(id) }
func Slug(slug string) attribute.KeyValue    { return attrSlug.String(slug) }
func LinkCount(n int) attribute.KeyValue     { return attrLinkCount.Int(n) }
func ImageCount(n int) attribute.KeyValue    { return attrImageCount.Int(n) }
func FileName(name string) attribute.KeyValue {
	return attrFileName.String(name)
}

// ImportRows describes the outcome of a bulk import
func ImportRows(total, created, failed int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attrRowsTotal.Int(total),
		attrRowsCreated.Int(created),
		attrRowsFailed.Int(failed),
	}
}

// StartServiceSpan starts an internal span named "<service>.<method>". The
// caller ends it.
//
//	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create", telemetry.LinkCount(3))
//	defer span.End()
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...))
}

// RecordError marks span failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// GetTraceID returns the trace ID in ctx, or "" outside a sampled trace
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
