package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestNoOpCollector(t *testing.T) {
	collector := noOpCollector{}

	timer := collector.Start("automaton.build")
	timer.Annotate("states", 4)
	timer.End()

	child := timer.Child("child")
	child.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	assert.Equal(t, 0, buf.Len())
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())

	assert.NotZero(t, collector)
	_, ok := collector.(noOpCollector)
	assert.True(t, ok, "expected noOpCollector, got %T", collector)
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved, ok := FromContext(ctx).(*TimingCollector)
	assert.True(t, ok)
	assert.True(t, retrieved == collector, "FromContext should return the collector that was added")
}

func TestTimingCollectorBasic(t *testing.T) {
	collector := NewTimingCollector()

	timer := collector.Start("recognizer.scan")
	time.Sleep(2 * time.Millisecond)
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	out := buf.String()
	assert.Contains(t, out, "recognizer.scan")
	assert.Contains(t, out, "ms")
}

func TestTimingCollectorHierarchical(t *testing.T) {
	collector := NewTimingCollector()

	root := collector.Start("run")
	build := root.Child("automaton.build")
	build.End()
	scan := root.Child("recognizer.scan")
	scan.End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	out := buf.String()
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "├─ automaton.build")
	assert.Contains(t, out, "└─ recognizer.scan")
}

func TestTimingCollectorNestedStart(t *testing.T) {
	collector := NewTimingCollector()

	outer := collector.Start("outer")
	inner := collector.Start("inner")
	inner.End()
	sibling := collector.Start("sibling")
	sibling.End()
	outer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 3, len(lines))
	assert.True(t, strings.HasPrefix(lines[1], "├─ inner"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "└─ sibling"), lines[2])
}

func TestTimerAnnotations(t *testing.T) {
	collector := NewTimingCollector()

	timer := collector.Start("recognizer.scan")
	timer.Annotate("steps", 3)
	timer.Annotate("tokens", 1)
	timer.Annotate("steps", 2)
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	assert.Contains(t, buf.String(), "(steps=5, tokens=1)")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		want     string
	}{
		{1 * time.Millisecond, "1ms"},
		{10 * time.Millisecond, "10ms"},
		{999 * time.Millisecond, "999ms"},
		{1 * time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.duration))
	}
}

func TestTimingCollectorEmptyReport(t *testing.T) {
	collector := NewTimingCollector()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	assert.Equal(t, 0, buf.Len())
}
