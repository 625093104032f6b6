package archprobe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ProbeRecord captures one timed probe invocation as seen from the host
// harness: the probe's name, its arguments, the value it returned, and the
// wall-clock duration the harness measured around the call.
type ProbeRecord struct {
	Name      string        `json:"name"`
	Args      []float64     `json:"args,omitempty"`
	Value     float64       `json:"value"`
	Wall      time.Duration `json:"wall_ns"`
	Timestamp time.Time     `json:"timestamp"`
}

// SessionRecorder accumulates probe records and persists them as a JSON
// session file. Records flush to disk on every append so a crashed run
// still leaves its partial session behind.
type SessionRecorder struct {
	mu          sync.Mutex
	records     []ProbeRecord
	logDir      string
	sessionFile string
}

// NewSessionRecorder creates a recorder that writes under logDir.
func NewSessionRecorder(logDir string) *SessionRecorder {
	return &SessionRecorder{logDir: logDir}
}

// Start opens a new session file named after sessionName and the current
// timestamp, discarding any previously accumulated records.
func (s *SessionRecorder) Start(sessionName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.logDir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	s.sessionFile = filepath.Join(s.logDir,
		fmt.Sprintf("%s_%s.json", sessionName, timestamp))
	s.records = nil

	return s.flush()
}

// Record appends one probe record and flushes the session file.
func (s *SessionRecorder) Record(r ProbeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}
	s.records = append(s.records, r)
	return s.flush()
}

// Records returns a copy of the accumulated records.
func (s *SessionRecorder) Records() []ProbeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ProbeRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Path returns the current session file path, empty before Start.
func (s *SessionRecorder) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionFile
}

func (s *SessionRecorder) flush() error {
	if s.sessionFile == "" {
		return fmt.Errorf("session not started")
	}
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session records: %w", err)
	}
	return os.WriteFile(s.sessionFile, data, 0644)
}
