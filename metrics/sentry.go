package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// SentryMetrics handles custom metrics for Sentry
type SentryMetrics struct {
	enabled bool
}

// NewSentryMetrics creates a new Sentry metrics client
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{
		enabled: true, // Spans are dropped by the SDK when Sentry is not configured
	}
}

// NewNoopMetrics returns a client that records nothing
func NewNoopMetrics() *SentryMetrics {
	return &SentryMetrics{}
}

// RecordParse records a notation parse
func (m *SentryMetrics) RecordParse(ctx context.Context, chordCount int, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("notation.valid", fmt.Sprintf("%t", success))
		transaction.SetData("notation.chords", chordCount)
	}

	span := sentry.StartSpan(ctx, "notation.parse")
	defer span.Finish()

	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("chords", chordCount)
	span.SetData("duration_ms", duration.Milliseconds())

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInvalidArgument
	}
	span.Description = fmt.Sprintf("Parse: %d chords", chordCount)
}

// RecordRender records the rendering of an exercise to a file format
func (m *SentryMetrics) RecordRender(ctx context.Context, format string, size int, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "render."+format)
	defer span.Finish()

	span.SetTag("format", format)
	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("bytes", size)
	span.SetData("duration_ms", duration.Milliseconds())

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
	span.Description = fmt.Sprintf("Render %s: %d bytes", format, size)
}

// RecordBuildDuration records a whole exercise build
func (m *SentryMetrics) RecordBuildDuration(ctx context.Context, duration time.Duration, success bool) {
	if !m.enabled {
		return
	}

	span := sentry.StartSpan(ctx, "exercise.build")
	defer span.Finish()

	span.SetTag("success", fmt.Sprintf("%t", success))
	span.SetData("duration_ms", duration.Milliseconds())
	span.SetData("success", success)

	if success {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	span.Description = fmt.Sprintf("Exercise Build: %t", success)
}
