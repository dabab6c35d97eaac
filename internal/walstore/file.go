package walstore

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/codegraph-ir/codegraph/internal/types"
)

// FileWriter is a durable Writer backed by an append-only file,
// flushed on every Append and fsynced only on explicit Fsync calls —
// callers are expected to call Fsync after a commit, not after every
// line (spec §4.13: "WAL append is serialized through a queue lock;
// fsync is explicit").
type FileWriter struct {
	mu   sync.Mutex
	file *os.File
	buf  *bufio.Writer
}

// OpenFileWriter opens (creating if necessary) path for append.
func OpenFileWriter(path string) (*FileWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("walstore: open %s: %w", path, err)
	}
	return &FileWriter{file: f, buf: bufio.NewWriter(f)}, nil
}

// Append writes line plus a trailing newline and flushes the buffer.
func (w *FileWriter) Append(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.buf.WriteString(line); err != nil {
		return err
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return err
	}
	return w.buf.Flush()
}

// Fsync forces the file to stable storage.
func (w *FileWriter) Fsync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.file.Sync()
}

// Close flushes and closes the underlying file.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.buf.Flush(); err != nil {
		return err
	}
	return w.file.Close()
}

// RecoverFromFile replays path's line format, stopping at the first
// malformed or checksum-mismatched line and returning every valid
// entry before it (spec §4.13: "recovery by reading until the first
// corruption and returning all valid entries before it").
func RecoverFromFile(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("walstore: open %s: %w", path, err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		entry, ok := parseLine(scanner.Text())
		if !ok {
			break
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseLine(line string) (Entry, bool) {
	parts := strings.SplitN(line, "\t", 5)
	if len(parts) != 5 {
		return Entry{}, false
	}

	txnID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return Entry{}, false
	}
	agentID := parts[1]
	unixTimestamp, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return Entry{}, false
	}
	wantChecksum, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return Entry{}, false
	}
	payload := parts[4]

	if lineChecksum(types.TxnID(txnID), agentID, unixTimestamp, payload) != wantChecksum {
		return Entry{}, false
	}

	changes, err := unmarshalChanges(payload)
	if err != nil {
		return Entry{}, false
	}

	return Entry{
		TxnID:     types.TxnID(txnID),
		AgentID:   agentID,
		Timestamp: time.Unix(unixTimestamp, 0).UTC(),
		Changes:   changes,
	}, true
}
