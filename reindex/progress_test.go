package reindex

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker(t *testing.T) {
	t.Run("reports at interval", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 100, 10)

		tracker.Start()
		tracker.Update(5)
		assert.Empty(t, buf.String(), "below interval, no report yet")

		tracker.Update(10)
		assert.Contains(t, buf.String(), "10/100")
	})

	t.Run("increment accumulates", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 20, 10)

		tracker.Start()
		tracker.Increment(4)
		tracker.Increment(4)
		assert.Empty(t, buf.String())

		tracker.Increment(4)
		assert.Contains(t, buf.String(), "12/20")
	})

	t.Run("finish reports full total", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 50, 100)

		tracker.Start()
		tracker.Update(30)
		tracker.Finish()

		out := buf.String()
		assert.Contains(t, out, "50/50")
		assert.True(t, strings.HasSuffix(out, "\n"), "final report ends with a newline")
	})

	t.Run("current capped at total", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 10, 1)

		tracker.Start()
		tracker.Update(25)
		assert.Contains(t, buf.String(), "10/10")
	})

	t.Run("ignored before start", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 10, 1)

		tracker.Update(5)
		tracker.Finish()
		assert.Empty(t, buf.String())
		assert.Equal(t, time.Duration(0), tracker.Elapsed())
	})

	t.Run("elapsed after start", func(t *testing.T) {
		var buf bytes.Buffer
		tracker := NewProgressTracker(&buf, 10, 1)

		tracker.Start()
		time.Sleep(5 * time.Millisecond)
		assert.Greater(t, tracker.Elapsed(), time.Duration(0))
	})
}
