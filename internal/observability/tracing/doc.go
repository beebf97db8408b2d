// Package tracing provides OpenTelemetry spans for the digest pipeline.
//
// Spans go to whatever provider is installed globally; with none installed
// the otel no-op provider makes them free. Each pipeline stage gets one span:
//
//	ctx, span := tracing.StartStage(ctx, "classify", attribute.Int("articles", n))
//	defer func() { tracing.End(span, err) }()
package tracing
