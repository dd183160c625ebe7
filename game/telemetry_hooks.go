package game

import (
	"log/slog"

	"github.com/pthm-cable/microbes/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
// It runs at the end of every engine tick.
func (g *Game) flushTelemetry(tick int32) {
	if !g.collector.ShouldFlush(tick) {
		return
	}

	// Flush the stats window
	stats := g.collector.Flush(tick, g.engine.Population())
	perfStats := g.engine.Perf().Stats()

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	g.writeLifetimes()

	// Check for bookmarks
	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}

		// Save snapshot on bookmark
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// writeLifetimes drains finished lives into lifetimes.csv. Records are
// dropped when output is disabled so the engine's buffer stays bounded.
func (g *Game) writeLifetimes() {
	records := g.engine.TakeLifetimes()
	if err := g.outputManager.WriteLifetimes(records); err != nil {
		slog.Error("failed to write lifetimes", "error", err)
	}
}

// saveSnapshot writes the current state to the snapshot directory.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	dir := g.snapshotDir
	if dir == "" {
		dir = defaultSnapshotDir
	}

	path, err := telemetry.SaveSnapshot(g.engine.Snapshot(g.seed, bookmark), dir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.engine.Tick())
}
