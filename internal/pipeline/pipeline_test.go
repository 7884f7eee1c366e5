package pipeline_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"spoke/internal/pipeline"
)

func TestTimingsReportOrder(t *testing.T) {
	var tm pipeline.Timings
	tm.Set(pipeline.StageRender, 2*time.Millisecond)
	tm.Set(pipeline.StageLex, time.Millisecond)
	tm.Note(pipeline.StageRender, "3 tests")

	report := tm.Report()
	if len(report.Stages) != 2 || report.Stages[0].Stage != pipeline.StageLex {
		t.Fatalf("stages must follow execution order: %+v", report.Stages)
	}
	if report.TotalMS != 3 {
		t.Errorf("total = %v", report.TotalMS)
	}
	summary := tm.Summary()
	if !strings.Contains(summary, "// 3 tests") || !strings.HasSuffix(summary, "   3.00 ms\n") {
		t.Errorf("summary:\n%s", summary)
	}
	if tm.Has(pipeline.StageWrite) {
		t.Errorf("write was never recorded")
	}
}

func TestTimingsTrack(t *testing.T) {
	var tm pipeline.Timings
	ran := false
	tm.Track(pipeline.StageParse, func() { ran = true })
	if !ran || !tm.Has(pipeline.StageParse) {
		t.Errorf("Track must run fn and record the stage")
	}
}

func TestDisplayFiles(t *testing.T) {
	base := t.TempDir()
	files := []string{
		filepath.Join(base, "b.spoke"),
		filepath.Join(base, "sub", "a.spoke"),
		filepath.Join(base, "b.spoke"),
		"",
	}
	got := pipeline.DisplayFiles(files, base)
	if want := "b.spoke,sub/a.spoke"; strings.Join(got, ",") != want {
		t.Errorf("got %v, want %s", got, want)
	}
}

func TestSinks(t *testing.T) {
	ch := make(chan pipeline.Event, 2)
	pipeline.EmitQueued(pipeline.ChannelSink{Ch: ch}, []string{"a", "b"})
	close(ch)
	n := 0
	for evt := range ch {
		if evt.Status != pipeline.StatusQueued || evt.Status.Terminal() {
			t.Errorf("unexpected event %+v", evt)
		}
		n++
	}
	if n != 2 {
		t.Errorf("got %d events", n)
	}

	var seen []pipeline.Status
	sink := pipeline.FuncSink(func(e pipeline.Event) { seen = append(seen, e.Status) })
	pipeline.Emit(sink, pipeline.Event{Status: pipeline.StatusCached})
	pipeline.Emit(nil, pipeline.Event{})
	if len(seen) != 1 || !seen[0].Terminal() {
		t.Errorf("seen = %v", seen)
	}
}
