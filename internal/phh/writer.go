package phh

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/cardroom/holdem/internal/fileutil"
	"github.com/cardroom/holdem/internal/game"
)

// Writer persists settled hands as .phh files, one file per hand, named by
// hand id. Write failures are logged and swallowed so a full disk never
// interrupts play.
type Writer struct {
	dir       string
	logger    *log.Logger
	collector *Collector
}

// NewWriter creates the output directory if needed and returns a writer.
func NewWriter(dir string, logger *log.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating hand history dir: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	w := &Writer{dir: dir, logger: logger}
	w.collector = NewCollector(w.save)
	return w, nil
}

// Record consumes one game event. Subscribe it to the event bus.
func (w *Writer) Record(ev game.GameEvent) {
	w.collector.Record(ev)
}

func (w *Writer) save(h *HandHistory) {
	data, err := EncodeToBytes(h)
	if err != nil {
		w.logger.Error("encoding hand history", "hand", h.HandID, "error", err)
		return
	}
	path := filepath.Join(w.dir, h.HandID+".phh")
	if err := fileutil.WriteAtomic(path, data, 0o644); err != nil {
		w.logger.Error("writing hand history", "hand", h.HandID, "error", err)
	}
}
