package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultLogPath is the default location for the navigation analytics log.
	DefaultLogPath = "~/.config/tln/analytics/events.jsonl"

	// DefaultRetentionDays is the number of days to retain log entries.
	DefaultRetentionDays = 30

	// RotationCheckInterval is how often to check for rotation (in events).
	RotationCheckInterval = 100
)

// Logger appends navigation events to a JSONL file with time-based
// rotation. It is typically attached to a Bus so every published event is
// recorded for later session analytics.
type Logger struct {
	path          string
	retentionDays int
	enabled       bool
	mu            sync.Mutex
	file          *os.File
	eventCount    int
	lastRotation  time.Time
}

// LoggerOptions configures the event logger.
type LoggerOptions struct {
	Path          string
	RetentionDays int
	Enabled       bool
}

// DefaultLoggerOptions returns the default logger options.
func DefaultLoggerOptions() LoggerOptions {
	return LoggerOptions{
		Path:          expandPath(DefaultLogPath),
		RetentionDays: DefaultRetentionDays,
		Enabled:       true,
	}
}

// NewLogger creates a new event logger.
func NewLogger(opts LoggerOptions) (*Logger, error) {
	if opts.Path == "" {
		opts.Path = expandPath(DefaultLogPath)
	}
	if opts.RetentionDays == 0 {
		opts.RetentionDays = DefaultRetentionDays
	}

	l := &Logger{
		path:          opts.Path,
		retentionDays: opts.RetentionDays,
		enabled:       opts.Enabled,
		lastRotation:  time.Now(),
	}

	if !l.enabled {
		return l, nil
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	l.file = f

	return l, nil
}

// record is the on-disk shape of a logged event.
type record struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Event     BusEvent  `json:"event"`
}

// recordIn mirrors record for decoding, where the event payload stays raw.
type recordIn struct {
	Timestamp time.Time       `json:"timestamp"`
	Type      string          `json:"type"`
	Event     json.RawMessage `json:"event"`
}

// Log writes one event to the log file.
func (l *Logger) Log(event BusEvent) error {
	if !l.enabled || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := json.Marshal(record{
		Timestamp: event.EventTimestamp(),
		Type:      event.EventType(),
		Event:     event,
	})
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}

	l.eventCount++
	if l.eventCount%RotationCheckInterval == 0 {
		go l.maybeRotate()
	}

	return nil
}

// Attach subscribes the logger to every event on the bus. The returned
// function detaches it again.
func (l *Logger) Attach(bus *Bus) UnsubscribeFunc {
	return bus.SubscribeAll(func(e BusEvent) {
		l.Log(e)
	})
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// maybeRotate checks if rotation is needed and performs it.
func (l *Logger) maybeRotate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	// At most one rotation per day.
	if time.Since(l.lastRotation) < 24*time.Hour {
		return
	}
	l.lastRotation = time.Now()

	if err := l.rotateOldEntries(); err != nil {
		fmt.Fprintf(os.Stderr, "event log rotation error: %v\n", err)
	}
}

// rotateOldEntries removes entries older than the retention period by
// streaming the log into a temp file and swapping it in.
func (l *Logger) rotateOldEntries() error {
	tmpFile, err := os.CreateTemp(filepath.Dir(l.path), "events-rotate-*.jsonl")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	srcFile, err := os.Open(l.path)
	if err != nil {
		tmpFile.Close()
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening source file: %w", err)
	}
	defer srcFile.Close()

	cutoff := time.Now().AddDate(0, 0, -l.retentionDays)
	scanner := bufio.NewScanner(srcFile)
	writer := bufio.NewWriter(tmpFile)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec recordIn
		if err := json.Unmarshal(line, &rec); err != nil {
			// Keep malformed entries.
			if _, err := writer.Write(line); err != nil {
				tmpFile.Close()
				return err
			}
			writer.WriteByte('\n')
			continue
		}

		if rec.Timestamp.Before(cutoff) {
			continue
		}
		if _, err := writer.Write(line); err != nil {
			tmpFile.Close()
			return err
		}
		writer.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("scanning log: %w", err)
	}

	if err := writer.Flush(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("flushing temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	// Swap the filtered log in and reopen the append handle.
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		return fmt.Errorf("replacing log file: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("reopening log file: %w", err)
	}
	l.file = f
	return nil
}

// expandPath expands a leading ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
