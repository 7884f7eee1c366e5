// Package pipeline describes the stages one spoke file goes through and the
// progress events the driver reports while running them.
package pipeline

import "time"

// Stage describes a pipeline phase.
type Stage string

const (
	StageLex      Stage = "lex"
	StageParse    Stage = "parse"
	StageGenerate Stage = "generate"
	StageRender   Stage = "render"
	StageWrite    Stage = "write"
)

// Stages lists every stage in execution order.
var Stages = []Stage{StageLex, StageParse, StageGenerate, StageRender, StageWrite}

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusCached  Status = "cached" // результат взят из кэша
	StatusError   Status = "error"
)

// Terminal reports whether no further events follow for the file.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// Event reports progress for a file (or for the whole run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use; the driver reports from several goroutines.
type ProgressSink interface {
	OnEvent(Event)
}
