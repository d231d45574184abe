package sprig

import (
	"log/slog"
	"time"
)

// frameStats holds per-tick timing and rebuild counters. Only logged when
// the runnable is in debug mode.
type frameStats struct {
	updateTime time.Duration
	renderTime time.Duration
	elements   int
	rebuilds   int
}

// debugLog emits the stats of the last tick at Debug level.
func (r *Runnable) debugLog(stats frameStats) {
	if !r.debug {
		return
	}
	r.ctx.Logger.Debug("frame",
		slog.Duration("update", stats.updateTime),
		slog.Duration("render", stats.renderTime),
		slog.Duration("total", stats.updateTime+stats.renderTime),
		slog.Int("elements", stats.elements),
		slog.Int("rebuilds", stats.rebuilds),
	)
}

// debugMaxDepth is the master nesting depth that triggers a warning.
const debugMaxDepth = 16

// debugMaxChildCount is the child count that triggers a warning.
const debugMaxChildCount = 1000

// debugCheckTree warns about suspiciously deep or wide scene graphs.
func (r *Runnable) debugCheckTree(root *Element) {
	var visit func(e *Element, depth int)
	visit = func(e *Element, depth int) {
		if depth > debugMaxDepth {
			r.ctx.Logger.Warn("scene graph too deep",
				slog.String("element", e.Name), slog.Int("depth", depth), slog.Int("threshold", debugMaxDepth))
			return
		}
		if n := len(e.children); n > debugMaxChildCount {
			r.ctx.Logger.Warn("master has many children",
				slog.String("element", e.Name), slog.Int("children", n), slog.Int("threshold", debugMaxChildCount))
		}
		for _, c := range e.Children() {
			visit(c, depth+1)
		}
	}
	visit(root, 0)
}
