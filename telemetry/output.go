package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/microbes/config"
)

// csvLog is one append-only CSV file that writes its header with the first batch.
type csvLog struct {
	name          string
	file          *os.File
	headerWritten bool
}

func openCSVLog(dir, name string) (*csvLog, error) {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", name, err)
	}
	return &csvLog{name: name, file: f}, nil
}

// write marshals records (a slice of structs with csv tags).
func (l *csvLog) write(records any) error {
	var err error
	if !l.headerWritten {
		err = gocsv.Marshal(records, l.file)
	} else {
		err = gocsv.MarshalWithoutHeaders(records, l.file)
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", l.name, err)
	}
	l.headerWritten = true
	return nil
}

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	telemetry *csvLog
	perf      *csvLog
	bookmarks *csvLog
	lifetimes *csvLog
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	logs := []struct {
		dst  **csvLog
		name string
	}{
		{&om.telemetry, "telemetry.csv"},
		{&om.perf, "perf.csv"},
		{&om.bookmarks, "bookmarks.csv"},
		{&om.lifetimes, "lifetimes.csv"},
	}
	for _, l := range logs {
		log, err := openCSVLog(dir, l.name)
		if err != nil {
			om.Close()
			return nil, err
		}
		*l.dst = log
	}

	return om, nil
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTelemetry writes a window stats record to telemetry.csv.
func (om *OutputManager) WriteTelemetry(stats WindowStats) error {
	if om == nil {
		return nil
	}
	return om.telemetry.write([]WindowStats{stats})
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int32) error {
	if om == nil {
		return nil
	}
	return om.perf.write([]PerfStatsCSV{stats.ToCSV(windowEnd)})
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}
	return om.bookmarks.write([]Bookmark{b})
}

// WriteLifetimes writes finished microbe lives to lifetimes.csv.
func (om *OutputManager) WriteLifetimes(records []LifetimeRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}
	return om.lifetimes.write(records)
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, l := range []*csvLog{om.telemetry, om.perf, om.bookmarks, om.lifetimes} {
		if l == nil {
			continue
		}
		if err := l.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
