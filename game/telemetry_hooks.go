package game

import (
	"log/slog"

	"github.com/pthm-cable/biosim/telemetry"
)

// flushTelemetry closes the stats window and hands the result to every sink.
// Sink failures are logged and the run continues. Returns the bookmarks
// raised this year.
func (g *Game) flushTelemetry() []telemetry.Bookmark {
	cen := g.island.Census()
	stats := g.collector.Flush(g.year, cen)
	perfStats := g.perfCollector.Stats()

	if g.opts.YearCallback != nil {
		g.opts.YearCallback(stats)
	}

	if g.opts.LogStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteYear(stats); err != nil {
			slog.Error("failed to write year stats", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, g.year); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if specs := g.cfg.Telemetry.Histograms; len(specs) > 0 {
			if err := g.outputManager.WriteHistograms(telemetry.Histograms(g.year, cen, specs)); err != nil {
				slog.Error("failed to write histograms", "error", err)
			}
		}
	}

	if g.store != nil {
		if err := g.store.RecordYear(g.runID, stats); err != nil {
			slog.Error("failed to record year", "error", err)
		}
	}

	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.opts.LogStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
	return bookmarks
}

// saveCensus dumps the current census if a census directory is set.
func (g *Game) saveCensus(bookmarks []telemetry.Bookmark) {
	if g.opts.CensusDir == "" {
		return
	}
	dump := telemetry.NewCensusDump(g.runID, g.year, g.layout, g.island.Census())
	dump.Bookmarks = bookmarks
	path, err := telemetry.SaveCensus(dump, g.opts.CensusDir)
	if err != nil {
		slog.Error("failed to save census", "error", err)
		return
	}
	slog.Debug("census saved", "year", g.year, "path", path)
}
