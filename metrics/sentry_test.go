package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Without a configured Sentry client spans are created and discarded; these
// only check that recording never fails.
func TestSentryMetrics_RecordWithoutClient(t *testing.T) {
	ctx := context.Background()

	for _, m := range []*SentryMetrics{NewSentryMetrics(), NewNoopMetrics()} {
		assert.NotPanics(t, func() {
			m.RecordParse(ctx, 3, time.Millisecond, true)
			m.RecordParse(ctx, 0, time.Millisecond, false)
			m.RecordRender(ctx, "midi", 128, time.Millisecond, true)
			m.RecordRender(ctx, "wav", 0, time.Millisecond, false)
			m.RecordBuildDuration(ctx, time.Second, true)
		})
	}
}
