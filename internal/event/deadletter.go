package event

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"
)

// DeadLetterSchemaVersion is bumped whenever DeadLetterEntry changes shape
const DeadLetterSchemaVersion = "1.1"

// DeadLetterEntry is one event that could not be delivered. Lines are JSON
// so an operator can replay them after fixing the failing consumer.
type DeadLetterEntry struct {
	SchemaVersion string    `json:"schema_version"`
	Timestamp     time.Time `json:"timestamp"`
	Event         Event     `json:"event"`
	Attempts      int       `json:"attempts"`
	LastError     string    `json:"last_error,omitempty"`
}

// DeadLetterWriter appends entries to a JSON-lines file
type DeadLetterWriter struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// NewDeadLetterWriter opens path for appending, creating it when missing
func NewDeadLetterWriter(path string) (*DeadLetterWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, DeadLetterFilePermissions)
	if err != nil {
		return nil, fmt.Errorf("open dead-letter file %s: %w", path, err)
	}
	return &DeadLetterWriter{file: f, now: time.Now}, nil
}

// Write appends a failed event
func (dlw *DeadLetterWriter) Write(event Event, attempts int, lastError error) error {
	entry := DeadLetterEntry{
		SchemaVersion: DeadLetterSchemaVersion,
		Event:         event,
		Attempts:      attempts,
	}
	if lastError != nil {
		entry.LastError = lastError.Error()
	}

	dlw.mu.Lock()
	defer dlw.mu.Unlock()

	entry.Timestamp = dlw.now().UTC()
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode dead-letter entry for %s: %w", event.Type, err)
	}
	_, err = dlw.file.Write(append(data, '\n'))
	return err
}

// Close closes the dead-letter file
func (dlw *DeadLetterWriter) Close() error {
	dlw.mu.Lock()
	defer dlw.mu.Unlock()
	return dlw.file.Close()
}

// DeadLetterBacklog summarizes an existing dead-letter file
type DeadLetterBacklog struct {
	Total     int
	ByType    map[Type]int
	Malformed int
}

// ReadDeadLetterBacklog counts the entries in path by event type. A missing
// file is an empty backlog. Lines that do not decode are counted as
// malformed rather than failing the read.
func ReadDeadLetterBacklog(path string) (DeadLetterBacklog, error) {
	backlog := DeadLetterBacklog{ByType: make(map[Type]int)}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return backlog, nil
	}
	if err != nil {
		return backlog, fmt.Errorf("open dead-letter file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), DeadLetterMaxLineBytes)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry DeadLetterEntry
		if err := json.Unmarshal(line, &entry); err != nil || entry.Event.Type == "" {
			backlog.Malformed++
			continue
		}
		backlog.Total++
		backlog.ByType[entry.Event.Type]++
	}
	if err := scanner.Err(); err != nil {
		return backlog, fmt.Errorf("read dead-letter file %s: %w", path, err)
	}
	return backlog, nil
}
