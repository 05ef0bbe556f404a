// Package telemetry provides hierarchical timing collection for automaton
// builds, scans and stepped runs. Timers form a tree and can carry integer
// annotations (states allocated, steps taken, tokens emitted) that are
// printed next to the duration.
//
// Collectors travel through context, so instrumented code does not change
// its signature when telemetry is enabled:
//
//	collector := telemetry.NewTimingCollector()
//	ctx := telemetry.WithCollector(context.Background(), collector)
//
//	timer := telemetry.FromContext(ctx).Start("automaton.build")
//	timer.Annotate("states", 12)
//	timer.End()
//
//	collector.Report(os.Stderr, nil)
package telemetry

import (
	"context"
	"io"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/output"
)

type contextKey struct{}

var collectorKey = contextKey{}

// Collector collects telemetry data.
type Collector interface {
	// Start begins timing an operation. If another timer is open, the new
	// one is nested beneath it.
	Start(name string) Timer

	// Report writes the collected tree to w. styles may be nil.
	Report(w io.Writer, styles *output.Styles)
}

// Timer tracks a single operation.
type Timer interface {
	// End stops the timer.
	End()

	// Child creates a timer nested under this one.
	Child(name string) Timer

	// Annotate records a named counter on the timer. Annotating the same
	// key twice adds to the previous value.
	Annotate(key string, value int)
}

// WithCollector adds a collector to a context.
func WithCollector(ctx context.Context, collector Collector) context.Context {
	return context.WithValue(ctx, collectorKey, collector)
}

// FromContext extracts the collector from context.
// If no collector is present, a collector that does nothing is returned.
func FromContext(ctx context.Context) Collector {
	if collector, ok := ctx.Value(collectorKey).(Collector); ok {
		return collector
	}
	return noOpCollector{}
}
