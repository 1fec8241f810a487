package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nibzard/blossom/internal/controller"
)

// JournalFileName is the journal file inside the data dir.
const JournalFileName = "journal.jsonl"

// Journal appends every controller notification as one JSON line.
type Journal struct {
	Path   string
	file   *os.File
	enc    *json.Encoder
	logger *log.Logger
}

// OpenJournal opens (or creates) the journal in dir for appending.
func OpenJournal(dir string, logger *log.Logger) (*Journal, error) {
	if dir == "" {
		return nil, fmt.Errorf("journal dir is empty")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(dir, JournalFileName)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if logger == nil {
		logger = Discard()
	}
	return &Journal{
		Path:   path,
		file:   file,
		enc:    json.NewEncoder(file),
		logger: logger,
	}, nil
}

// Notify writes ev. Write failures are logged and otherwise ignored; the
// journal never affects task state.
func (j *Journal) Notify(ev controller.Event) {
	if j == nil || j.file == nil {
		return
	}
	if err := j.enc.Encode(ev); err != nil {
		j.logger.Warn("journal write failed", "path", j.Path, "err", err)
	}
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil || j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// TailJournal writes the last n lines of the journal at path to w.
// n <= 0 writes the whole journal. A missing journal writes nothing.
func TailJournal(w io.Writer, path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	if n <= 0 {
		_, err = io.Copy(w, file)
		return err
	}

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = append(ring[:0], ring[1:]...)
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read journal: %w", err)
	}

	for _, line := range ring {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
