package telemetry

import (
	"testing"

	"github.com/pthm-cable/biosim/config"
)

var testBookmarks = config.BookmarksConfig{
	HistorySize:            5,
	PreyCrashDrop:          0.5,
	PredatorRecoveryMin:    5,
	PredatorRecoveryFactor: 3,
	StableCVMax:            0.15,
}

func hasBookmark(bms []Bookmark, typ BookmarkType) bool {
	for _, bm := range bms {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_Extinction(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks)
	bd.Check(YearStats{Year: 1, Herbivores: 50, Carnivores: 10})
	bms := bd.Check(YearStats{Year: 2, Herbivores: 60, Carnivores: 0})
	if !hasBookmark(bms, BookmarkExtinction) {
		t.Fatal("expected extinction bookmark")
	}
	if bms[0].Year != 2 {
		t.Errorf("year = %d", bms[0].Year)
	}

	// already extinct: no repeat
	if bms := bd.Check(YearStats{Year: 3, Herbivores: 70}); hasBookmark(bms, BookmarkExtinction) {
		t.Error("extinction reported twice")
	}
}

func TestBookmarkDetector_PreyCrash(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks)
	for y := 1; y <= 3; y++ {
		bd.Check(YearStats{Year: y, Herbivores: 100, Carnivores: 10})
	}
	if bms := bd.Check(YearStats{Year: 4, Herbivores: 40, Carnivores: 10}); !hasBookmark(bms, BookmarkPreyCrash) {
		t.Fatal("expected prey_crash bookmark")
	}
	// peak resets to the crash level
	if bms := bd.Check(YearStats{Year: 5, Herbivores: 35, Carnivores: 10}); hasBookmark(bms, BookmarkPreyCrash) {
		t.Error("small further drop reported as a crash")
	}
}

func TestBookmarkDetector_NoCrashOnSmallDrop(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks)
	bd.Check(YearStats{Year: 1, Herbivores: 100, Carnivores: 10})
	if bms := bd.Check(YearStats{Year: 2, Herbivores: 60, Carnivores: 10}); hasBookmark(bms, BookmarkPreyCrash) {
		t.Error("40% drop should not trigger at threshold 0.5")
	}
}

func TestBookmarkDetector_PredatorRecovery(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks)
	for i, n := range []int{20, 10, 2, 4} {
		if bms := bd.Check(YearStats{Year: i + 1, Herbivores: 100, Carnivores: n}); hasBookmark(bms, BookmarkPredatorRecovery) {
			t.Fatalf("year %d: early recovery bookmark", i+1)
		}
	}
	if bms := bd.Check(YearStats{Year: 5, Herbivores: 100, Carnivores: 7}); !hasBookmark(bms, BookmarkPredatorRecovery) {
		t.Fatal("expected predator_recovery bookmark")
	}
}

func TestBookmarkDetector_StableEcosystem(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks)
	var fired int
	for y := 1; y <= 8; y++ {
		bms := bd.Check(YearStats{Year: y, Herbivores: 200 + y%2, Carnivores: 30})
		if hasBookmark(bms, BookmarkStableEcosystem) {
			fired++
			if y != 5 {
				t.Errorf("stable_ecosystem at year %d, want 5", y)
			}
		}
	}
	if fired != 1 {
		t.Errorf("stable_ecosystem fired %d times, want 1", fired)
	}
}

func TestBookmarkDetector_UnstableNotFlagged(t *testing.T) {
	bd := NewBookmarkDetector(testBookmarks)
	for y, n := range []int{100, 300, 50, 400, 80, 350} {
		if bms := bd.Check(YearStats{Year: y + 1, Herbivores: n, Carnivores: 20}); hasBookmark(bms, BookmarkStableEcosystem) {
			t.Fatalf("year %d: oscillating populations flagged stable", y+1)
		}
	}
}
