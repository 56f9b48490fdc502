package game

import (
	"context"

	"github.com/pthm-cable/biosim/systems"
	"github.com/pthm-cable/biosim/telemetry"
)

// Step simulates one year and reports it to the telemetry sinks.
func (g *Game) Step() systems.YearEvents {
	g.perfCollector.StartYear()
	ev := g.island.YearlyCycleTimed(g.perfCollector)
	g.year++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(ev)
	var bookmarks []telemetry.Bookmark
	if g.year%g.cfg.Telemetry.StatsEvery == 0 {
		bookmarks = g.flushTelemetry()
	}
	every := g.cfg.Telemetry.CensusEvery
	if len(bookmarks) > 0 || (every > 0 && g.year%every == 0) {
		g.saveCensus(bookmarks)
	}
	g.perfCollector.EndYear()
	return ev
}

// Run simulates up to years more years. It stops between years when ctx is
// cancelled and returns ctx.Err() in that case.
func (g *Game) Run(ctx context.Context, years int) error {
	for i := 0; i < years; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		g.Step()
	}
	return nil
}

// RunUntil simulates until the target year is reached.
func (g *Game) RunUntil(ctx context.Context, year int) error {
	return g.Run(ctx, year-g.year)
}
