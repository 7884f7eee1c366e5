package driver

import (
	"encoding/json"
	"fmt"

	"spoke/internal/diag"
	"spoke/internal/pipeline"
	"spoke/internal/source"
)

type timingPayload struct {
	Kind    string                 `json:"kind"`
	Path    string                 `json:"path,omitempty"`
	TotalMS float64                `json:"total_ms"`
	Stages  []pipeline.StageReport `json:"stages"`
}

func appendTimingDiagnostic(bag *diag.Bag, path string, timings pipeline.Timings) {
	if bag == nil {
		return
	}
	report := timings.Report()
	payload := timingPayload{
		Kind:    "generate",
		Path:    path,
		TotalMS: report.TotalMS,
		Stages:  report.Stages,
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data))

	// тайминги не должны теряться из-за лимита
	if bag.Cap() > 0 && bag.Len() >= bag.Cap() {
		overflow := diag.NewBag(0)
		overflow.Add(entry)
		bag.Merge(overflow)
		return
	}
	bag.Add(entry)
}
