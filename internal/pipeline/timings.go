package pipeline

import (
	"fmt"
	"strings"
	"time"
)

// Timings holds stage durations of one file. The zero value is ready to use.
type Timings struct {
	stages map[Stage]time.Duration
	notes  map[Stage]string
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Set stores a duration for the given stage.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] = dur
}

// Note attaches a short remark shown next to the stage in the summary.
func (t *Timings) Note(stage Stage, note string) {
	if t == nil {
		return
	}
	if t.notes == nil {
		t.notes = make(map[Stage]string)
	}
	t.notes[stage] = note
}

// Track runs fn and records its duration under stage.
func (t *Timings) Track(stage Stage, fn func()) {
	start := time.Now()
	fn()
	t.Set(stage, time.Since(start))
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages; with no
// arguments all stages are summed.
func (t Timings) Sum(stages ...Stage) time.Duration {
	if len(stages) == 0 {
		stages = Stages
	}
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}

// StageReport представляет длительность одной стадии для сериализации.
type StageReport struct {
	Stage      Stage   `json:"stage" yaml:"stage"`
	DurationMS float64 `json:"duration_ms" yaml:"duration_ms"`
	Note       string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// Report описывает агрегированные данные таймингов.
type Report struct {
	TotalMS float64       `json:"total_ms" yaml:"total_ms"`
	Stages  []StageReport `json:"stages" yaml:"stages"`
}

// Report returns the recorded stages in execution order.
func (t Timings) Report() Report {
	var report Report
	for _, stage := range Stages {
		if !t.Has(stage) {
			continue
		}
		report.Stages = append(report.Stages, StageReport{
			Stage:      stage,
			DurationMS: durationToMillis(t.stages[stage]),
			Note:       t.notes[stage],
		})
	}
	report.TotalMS = durationToMillis(t.Sum())
	return report
}

// Summary returns a human-readable table of the recorded stages.
func (t Timings) Summary() string {
	report := t.Report()
	var sb strings.Builder
	sb.WriteString("timings:\n")
	for _, s := range report.Stages {
		fmt.Fprintf(&sb, "  %-10s %7.2f ms", s.Stage, s.DurationMS)
		if s.Note != "" {
			sb.WriteString("  // " + s.Note)
		}
		sb.WriteString("\n")
	}
	fmt.Fprintf(&sb, "  %-10s %7.2f ms\n", "total", report.TotalMS)
	return sb.String()
}

func durationToMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
