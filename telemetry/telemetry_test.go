package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestTimingCollector(t *testing.T) {
	t.Run("ReportsNestedTimings", func(t *testing.T) {
		c := NewTimingCollector()

		root := c.Start("pipeline")
		ingest := root.Child("ingest")
		ingest.End()
		replay := root.Child("replay")
		replay.End()
		root.End()

		var buf strings.Builder
		c.Report(&buf)

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		assert.Equal(t, 3, len(lines))
		assert.True(t, strings.HasPrefix(lines[0], "pipeline"))
		assert.True(t, strings.HasPrefix(lines[1], "  ingest"))
		assert.True(t, strings.HasPrefix(lines[2], "  replay"))
	})

	t.Run("SiblingsNestUnderOpenTimer", func(t *testing.T) {
		c := NewTimingCollector()

		root := c.Start("root")
		inner := c.Start("inner")
		inner.End()
		root.End()

		var buf strings.Builder
		c.Report(&buf)
		assert.Contains(t, buf.String(), "\n  inner")
	})

	t.Run("EmptyCollectorReportsNothing", func(t *testing.T) {
		var buf strings.Builder
		NewTimingCollector().Report(&buf)
		assert.Equal(t, "", buf.String())
	})
}

func TestFromContext(t *testing.T) {
	t.Run("ReturnsAttachedCollector", func(t *testing.T) {
		c := NewTimingCollector()
		ctx := WithCollector(context.Background(), c)
		assert.True(t, FromContext(ctx) == Collector(c))
	})

	t.Run("NoOpWithoutCollector", func(t *testing.T) {
		c := FromContext(context.Background())

		// Must be safe to use without any setup.
		timer := c.Start("anything")
		timer.Child("nested").End()
		timer.End()

		var buf strings.Builder
		c.Report(&buf)
		assert.Equal(t, "", buf.String())
	})
}
