package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkBabyBoom        BookmarkType = "baby_boom"
	BookmarkExtinction      BookmarkType = "extinction"
	BookmarkStableColony    BookmarkType = "stable_colony"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// stableWindows is how many consecutive low-variance windows make a stable colony.
const stableWindows = 5

// BookmarkDetector detects interesting moments in the simulation.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentPeak         int // peak microbe count since the last crash
	extinct            bool
	stableWindowsCount int
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < stableWindows {
		historySize = stableWindows
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkExtinction(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	if bd.historyFull || bd.historyIdx > 0 {
		// Crash: dropped >30% from recent peak
		if b := bd.checkPopulationCrash(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Baby boom: births > 2x rolling average
		if b := bd.checkBabyBoom(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Stable colony: low population variance over several windows
		if b := bd.checkStableColony(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.Microbes > bd.recentPeak {
		bd.recentPeak = stats.Microbes
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

// recent returns up to n most recent history entries, oldest first.
func (bd *BookmarkDetector) recent(n int) []WindowStats {
	count := bd.historyIdx
	if bd.historyFull {
		count = bd.historySize
	}
	if n > count {
		n = count
	}
	out := make([]WindowStats, 0, n)
	for i := n; i > 0; i-- {
		idx := (bd.historyIdx - i + bd.historySize) % bd.historySize
		out = append(out, bd.history[idx])
	}
	return out
}

func (bd *BookmarkDetector) checkExtinction(stats WindowStats) *Bookmark {
	if stats.Microbes > 0 {
		bd.extinct = false
		return nil
	}
	if bd.extinct || bd.recentPeak == 0 {
		return nil
	}
	bd.extinct = true
	return &Bookmark{
		Type:        BookmarkExtinction,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All microbes died (peak %d)", bd.recentPeak),
	}
}

func (bd *BookmarkDetector) checkPopulationCrash(stats WindowStats) *Bookmark {
	if bd.recentPeak == 0 || stats.Microbes == 0 {
		return nil
	}

	dropPercent := 1.0 - float64(stats.Microbes)/float64(bd.recentPeak)
	if dropPercent > 0.30 && stats.Microbes < bd.recentPeak-5 {
		// Reset peak after crash
		oldPeak := bd.recentPeak
		bd.recentPeak = stats.Microbes

		return &Bookmark{
			Type:        BookmarkPopulationCrash,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Microbes crashed %.0f%% from peak %d to %d", dropPercent*100, oldPeak, stats.Microbes),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkBabyBoom(stats WindowStats) *Bookmark {
	history := bd.recent(bd.historySize)
	if len(history) < 3 {
		return nil
	}

	births := make([]float64, len(history))
	for i, h := range history {
		births[i] = float64(h.Births)
	}
	avgBirths := stat.Mean(births, nil)
	if avgBirths == 0 {
		return nil
	}

	if float64(stats.Births) > avgBirths*2.0 && stats.Births >= 4 {
		return &Bookmark{
			Type:        BookmarkBabyBoom,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d births is %.1fx average (%.1f)", stats.Births, float64(stats.Births)/avgBirths, avgBirths),
		}
	}

	return nil
}

func (bd *BookmarkDetector) checkStableColony(stats WindowStats) *Bookmark {
	if stats.Microbes < 5 {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.recent(stableWindows - 1)
	if len(history) < stableWindows-1 {
		return nil
	}

	counts := make([]float64, 0, stableWindows)
	for _, h := range history {
		counts = append(counts, float64(h.Microbes))
	}
	counts = append(counts, float64(stats.Microbes))

	// Low variance: coefficient of variation < 20%
	mean, variance := stat.PopMeanVariance(counts, nil)
	if mean > 0 && variance/(mean*mean) < 0.04 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == stableWindows { // trigger exactly once per stable run
		return &Bookmark{
			Type:        BookmarkStableColony,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Stable colony of %d microbes over %d+ windows", stats.Microbes, stableWindows),
		}
	}

	return nil
}
