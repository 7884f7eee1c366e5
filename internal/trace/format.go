package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Format is the encoding of streamed and dumped events.
type Format uint8

const (
	FormatAuto   Format = iota // по расширению файла
	FormatText                 // one line per event for people
	FormatNDJSON               // one JSON object per line
)

// ParseFormat converts a flag value to a Format; "json" means NDJSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	}
	return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent encodes ev as one line, newline included.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return appendJSON(nil, ev)
	}
	return appendText(nil, ev)
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Run      string            `json:"run,omitempty"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	File     string            `json:"file,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

const jsonTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

func appendJSON(dst []byte, ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time:     ev.Time.Format(jsonTimeLayout),
		Seq:      ev.Seq,
		Run:      ev.RunID,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		File:     ev.File,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return dst
	}
	return append(append(dst, data...), '\n')
}

var kindMarks = map[Kind]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// appendText writes `[seq] → name @file (detail) {k=v, ...}`. Child events
// are indented by two spaces.
func appendText(dst []byte, ev *Event) []byte {
	dst = fmt.Appendf(dst, "[%6d] ", ev.Seq)
	if ev.ParentID > 0 {
		dst = append(dst, "  "...)
	}
	dst = append(dst, kindMarks[ev.Kind]...)
	dst = append(dst, ev.Name...)
	if ev.File != "" && ev.Scope <= ScopeFile {
		dst = append(append(dst, " @"...), ev.File...)
	}
	if ev.Detail != "" {
		dst = fmt.Appendf(dst, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		dst = fmt.Appendf(dst, " {%s}", strings.Join(pairs, ", "))
	}
	return append(dst, '\n')
}
