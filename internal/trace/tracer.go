package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Tracer receives trace events. Implementations must be safe for
// concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error // flushes first
	Level() Level
	Enabled() bool // Level() > LevelOff
}

// StorageMode says where events go: written out, kept in memory, or both.
type StorageMode uint8

const (
	ModeStream StorageMode = iota + 1
	ModeRing
	ModeBoth
)

var modeNames = map[StorageMode]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

func (m StorageMode) streams() bool { return m == ModeStream || m == ModeBoth }
func (m StorageMode) rings() bool   { return m == ModeRing || m == ModeBoth }

// ParseMode converts a flag value to a StorageMode.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(s)
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode: %q (expected: stream|ring|both)", s)
}

const defaultRingSize = 4096

type Config struct {
	Level      Level
	Mode       StorageMode
	Format     Format    // FormatAuto picks by OutputPath extension
	Output     io.Writer // takes precedence over OutputPath
	OutputPath string    // "" and "-" mean stderr
	RingSize   int       // 0: 4096
	RunID      string    // "": random UUID
}

// New builds the tracer described by cfg. LevelOff always gives Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	if !cfg.Mode.streams() && !cfg.Mode.rings() {
		return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
	}

	var members []Tracer
	if cfg.Mode.streams() {
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		runID := cfg.RunID
		if runID == "" {
			runID = uuid.NewString()
		}
		members = append(members, NewStreamTracer(w, cfg.Level, pickFormat(cfg), runID))
	}
	if cfg.Mode.rings() {
		size := cfg.RingSize
		if size <= 0 {
			size = defaultRingSize
		}
		members = append(members, NewRingTracer(size, cfg.Level))
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return NewMultiTracer(members...), nil
}

func pickFormat(cfg Config) Format {
	if cfg.Format != FormatAuto {
		return cfg.Format
	}
	switch filepath.Ext(cfg.OutputPath) {
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	}
	return FormatText
}

// stderrOutput hides Close so that closing the tracer leaves stderr open.
type stderrOutput struct{ io.Writer }

func openOutput(cfg Config) (io.Writer, error) {
	switch {
	case cfg.Output != nil:
		return cfg.Output, nil
	case cfg.OutputPath == "" || cfg.OutputPath == "-":
		return stderrOutput{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// FindRing returns the ring tracer inside t, if any.
func FindRing(t Tracer) (*RingTracer, bool) {
	switch tr := t.(type) {
	case *RingTracer:
		return tr, true
	case *MultiTracer:
		for _, inner := range tr.tracers {
			if ring, ok := FindRing(inner); ok {
				return ring, true
			}
		}
	}
	return nil, false
}
