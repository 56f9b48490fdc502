package telemetry

import (
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/biosim/config"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkExtinction       BookmarkType = "extinction"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkPredatorRecovery BookmarkType = "predator_recovery"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark represents an automatically detected notable year.
type Bookmark struct {
	Type        BookmarkType `csv:"type" json:"type"`
	Year        int          `csv:"year" json:"year"`
	Description string       `csv:"description" json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"year", b.Year,
		"description", b.Description,
	)
}

// BookmarkDetector detects notable years from the stats stream.
type BookmarkDetector struct {
	cfg config.BookmarksConfig

	// Rolling history (circular buffer)
	history     []YearStats
	historyIdx  int
	historyFull bool

	prev     *YearStats
	preyPeak int
	predMin  int
	predSeen bool
	stable   bool // a stable_ecosystem bookmark was raised and still holds
}

// NewBookmarkDetector creates a detector with the given thresholds.
func NewBookmarkDetector(cfg config.BookmarksConfig) *BookmarkDetector {
	if cfg.HistorySize < 2 {
		cfg.HistorySize = 2
	}
	return &BookmarkDetector{
		cfg:     cfg,
		history: make([]YearStats, cfg.HistorySize),
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats YearStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.prev != nil {
		bookmarks = append(bookmarks, bd.checkExtinction(stats)...)
	}
	if b := bd.checkPreyCrash(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkPredatorRecovery(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	if b := bd.checkStableEcosystem(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	prev := stats
	bd.prev = &prev
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats YearStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % len(bd.history)
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) checkExtinction(stats YearStats) []Bookmark {
	var out []Bookmark
	if bd.prev.Herbivores > 0 && stats.Herbivores == 0 {
		out = append(out, Bookmark{
			Type:        BookmarkExtinction,
			Year:        stats.Year,
			Description: fmt.Sprintf("Herbivores extinct (were %d)", bd.prev.Herbivores),
		})
	}
	if bd.prev.Carnivores > 0 && stats.Carnivores == 0 {
		out = append(out, Bookmark{
			Type:        BookmarkExtinction,
			Year:        stats.Year,
			Description: fmt.Sprintf("Carnivores extinct (were %d)", bd.prev.Carnivores),
		})
	}
	return out
}

func (bd *BookmarkDetector) checkPreyCrash(stats YearStats) *Bookmark {
	if stats.Herbivores > bd.preyPeak {
		bd.preyPeak = stats.Herbivores
		return nil
	}
	if bd.preyPeak < 10 || stats.Herbivores == 0 {
		return nil
	}

	drop := 1 - float64(stats.Herbivores)/float64(bd.preyPeak)
	if drop <= bd.cfg.PreyCrashDrop {
		return nil
	}
	oldPeak := bd.preyPeak
	bd.preyPeak = stats.Herbivores
	return &Bookmark{
		Type:        BookmarkPreyCrash,
		Year:        stats.Year,
		Description: fmt.Sprintf("Herbivores crashed %.0f%% from peak %d to %d", drop*100, oldPeak, stats.Herbivores),
	}
}

func (bd *BookmarkDetector) checkPredatorRecovery(stats YearStats) *Bookmark {
	n := stats.Carnivores
	if n == 0 {
		return nil
	}
	if !bd.predSeen || n < bd.predMin {
		bd.predMin, bd.predSeen = n, true
		return nil
	}
	if bd.predMin > bd.cfg.PredatorRecoveryMin {
		return nil
	}
	if float64(n) < float64(bd.predMin)*bd.cfg.PredatorRecoveryFactor {
		return nil
	}
	oldMin := bd.predMin
	bd.predMin = n
	return &Bookmark{
		Type:        BookmarkPredatorRecovery,
		Year:        stats.Year,
		Description: fmt.Sprintf("Carnivores recovered from %d to %d", oldMin, n),
	}
}

// checkStableEcosystem fires once when both species have stayed present with
// a low coefficient of variation over a full history window.
func (bd *BookmarkDetector) checkStableEcosystem(stats YearStats) *Bookmark {
	if !bd.historyFull {
		return nil
	}
	herbs := make([]float64, len(bd.history))
	carns := make([]float64, len(bd.history))
	for i, h := range bd.history {
		herbs[i] = float64(h.Herbivores)
		carns[i] = float64(h.Carnivores)
	}

	isStable := coefficientOfVariation(herbs) < bd.cfg.StableCVMax &&
		coefficientOfVariation(carns) < bd.cfg.StableCVMax
	if !isStable {
		bd.stable = false
		return nil
	}
	if bd.stable {
		return nil
	}
	bd.stable = true
	return &Bookmark{
		Type:        BookmarkStableEcosystem,
		Year:        stats.Year,
		Description: fmt.Sprintf("Stable ecosystem with %d herbivores, %d carnivores over %d years", stats.Herbivores, stats.Carnivores, len(bd.history)),
	}
}

// coefficientOfVariation returns stddev/mean, or +Inf when any value is zero.
func coefficientOfVariation(values []float64) float64 {
	for _, v := range values {
		if v == 0 {
			return math.Inf(1)
		}
	}
	mean, std := stat.MeanStdDev(values, nil)
	return std / mean
}
