package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// Reporter receives persistence faults. The stores never surface these to
// callers; state degrades silently and the application keeps running.
type Reporter interface {
	Report(err error)
}

// LogReporter reports faults to a slog logger.
type LogReporter struct {
	logger *slog.Logger
}

func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Report(err error) {
	r.logger.Error("persistence fault", "error", err)
}

// Snapshots serializes collections to an Adapter as JSON snapshots and owns
// the fault policy: failures are reported and swallowed, never returned.
type Snapshots struct {
	adapter  Adapter
	reporter Reporter
}

func NewSnapshots(adapter Adapter, reporter Reporter) *Snapshots {
	return &Snapshots{adapter: adapter, reporter: reporter}
}

// Load unmarshals the snapshot saved under key into v. It returns false if
// the key is absent or the snapshot cannot be read or decoded; the caller
// falls back to its default state.
func (s *Snapshots) Load(key string, v any) bool {
	data, err := s.adapter.Load(key)
	if err != nil {
		s.reporter.Report(err)
		return false
	}
	if data == nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.reporter.Report(fmt.Errorf("decode snapshot %q: %w", key, err))
		return false
	}
	return true
}

// Save marshals v and writes it under key. Failures are reported and
// dropped; in-memory state is not rolled back.
func (s *Snapshots) Save(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.reporter.Report(fmt.Errorf("encode snapshot %q: %w", key, err))
		return
	}
	if err := s.adapter.Save(key, data); err != nil {
		s.reporter.Report(err)
	}
}
