package telemetry

import (
	"io"
	"sync"
	"time"

	"github.com/Pathx4/Dynamic-FSM-Generator-App/output"
)

// TimingCollector collects hierarchical timing data.
// It builds a tree of timers that can be reported as a nested view.
type TimingCollector struct {
	root    *timerNode
	current *timerNode
	mu      sync.Mutex
}

// timerNode is a single timed operation in the tree.
type timerNode struct {
	name        string
	start       time.Time
	end         time.Time
	children    []*timerNode
	parent      *timerNode
	annotations []annotation
}

type annotation struct {
	key   string
	value int
}

// NewTimingCollector creates a new timing collector.
func NewTimingCollector() *TimingCollector {
	return &TimingCollector{}
}

// Start begins timing an operation.
func (c *TimingCollector) Start(name string) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	node := &timerNode{
		name:  name,
		start: time.Now(),
	}

	if c.root == nil {
		c.root = node
		c.current = node
	} else {
		node.parent = c.current
		c.current.children = append(c.current.children, node)
		c.current = node
	}

	return &timingTimer{
		collector: c,
		node:      node,
	}
}

// Report writes the timing tree to w.
func (c *TimingCollector) Report(w io.Writer, styles *output.Styles) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.root == nil {
		return
	}

	formatTimingTree(w, c.root, styles)
}

// timingTimer records to a TimingCollector.
type timingTimer struct {
	collector *TimingCollector
	node      *timerNode
}

// End stops the timer and moves the collector's cursor back to its parent.
func (t *timingTimer) End() {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	t.node.end = time.Now()

	if t.node.parent != nil && t.collector.current == t.node {
		t.collector.current = t.node.parent
	}
}

// Child creates a nested timer.
func (t *timingTimer) Child(name string) Timer {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	node := &timerNode{
		name:   name,
		start:  time.Now(),
		parent: t.node,
	}

	t.node.children = append(t.node.children, node)

	return &timingTimer{
		collector: t.collector,
		node:      node,
	}
}

// Annotate records a counter on the timer.
func (t *timingTimer) Annotate(key string, value int) {
	t.collector.mu.Lock()
	defer t.collector.mu.Unlock()

	for i := range t.node.annotations {
		if t.node.annotations[i].key == key {
			t.node.annotations[i].value += value
			return
		}
	}
	t.node.annotations = append(t.node.annotations, annotation{key: key, value: value})
}
