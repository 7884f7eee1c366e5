package fix

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"spoke/internal/diag"
	"spoke/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// Mode determines which of the collected fixes are applied.
type Mode uint8

const (
	ModeOnce Mode = iota // первый по позиции
	ModeAll
)

// Applied records a successfully applied fix.
type Applied struct {
	ID    string
	Title string
	Code  diag.Code
	Path  string
	Edits int
}

// Skipped captures a fix that was not applied and why.
type Skipped struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path  string
	Edits int
}

// Result aggregates applied fixes, skipped ones and file changes.
type Result struct {
	Applied []Applied
	Skipped []Skipped
	Files   []FileChange
}

type candidate struct {
	id    string
	code  diag.Code
	at    source.Span
	fix   diag.Fix
	order int
}

// Apply collects the fixes attached to diagnostics, selects them according to
// mode and rewrites the affected files in place. Spans refer to the content
// held by fs; a file that changed on disk since it was loaded is not written.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, mode Mode) (*Result, error) {
	result := &Result{}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates := gather(diagnostics, result)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)
	if mode == ModeOnce {
		candidates = candidates[:1]
	}

	if err := apply(fs, candidates, result); err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

func gather(diagnostics []diag.Diagnostic, result *Result) []candidate {
	var cands []candidate
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			id := fmt.Sprintf("%s-%d-%d", d.Code.ID(), d.Primary.Start, idx)
			if len(f.Edits) == 0 {
				result.Skipped = append(result.Skipped, Skipped{ID: id, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			cands = append(cands, candidate{id: id, code: d.Code, at: d.Primary, fix: f, order: len(cands)})
		}
	}
	return cands
}

// sortCandidates orders fixes by file, span and then emission order.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.at.File != b.at.File {
			return a.at.File < b.at.File
		}
		if a.at.Start != b.at.Start {
			return a.at.Start < b.at.Start
		}
		if a.at.End != b.at.End {
			return a.at.End < b.at.End
		}
		return a.order < b.order
	})
}

func apply(fs *source.FileSet, selected []candidate, result *Result) error {
	buffers := make(map[source.FileID][]byte)
	applied := make(map[source.FileID][]diag.FixEdit)
	counts := make(map[source.FileID]int)
	var dirty []source.FileID

	for _, cand := range selected {
		staged := make(map[source.FileID][]byte)
		stagedApplied := make(map[source.FileID][]diag.FixEdit)
		reason := ""

		for _, fileID := range fileOrder(cand.fix.Edits) {
			if int(fileID) >= fs.Len() {
				reason = "unknown file"
				break
			}
			file := fs.Get(fileID)
			if file.Flags&source.FileVirtual != 0 {
				reason = "target file is virtual"
				break
			}
			edits := editsFor(cand.fix.Edits, fileID)
			if conflicts(applied[fileID], edits) {
				reason = "conflicts with a previously applied edit"
				break
			}

			working := buffers[fileID]
			if working == nil {
				working = file.Content
			}
			working = append([]byte(nil), working...)
			done := append([]diag.FixEdit(nil), applied[fileID]...)

			// с конца, чтобы смещения ещё не применённых правок не съезжали
			sort.SliceStable(edits, func(i, j int) bool {
				return edits[i].Span.Start > edits[j].Span.Start
			})
			for _, edit := range edits {
				if edit.Span.End > uint32(len(file.Content)) || edit.Span.Start > edit.Span.End {
					reason = "edit span out of range"
					break
				}
				start := int(edit.Span.Start) + delta(done, edit.Span.Start)
				end := int(edit.Span.End) + delta(done, edit.Span.End)
				tail := append([]byte(nil), working[end:]...)
				working = append(append(working[:start], edit.NewText...), tail...)
				done = insertSorted(done, edit)
			}
			if reason != "" {
				break
			}
			staged[fileID] = working
			stagedApplied[fileID] = done
		}

		if reason != "" {
			result.Skipped = append(result.Skipped, Skipped{ID: cand.id, Title: cand.fix.Title, Reason: reason})
			continue
		}
		for fileID, buf := range staged {
			if _, seen := buffers[fileID]; !seen {
				dirty = append(dirty, fileID)
			}
			buffers[fileID] = buf
			counts[fileID] += len(stagedApplied[fileID]) - len(applied[fileID])
			applied[fileID] = stagedApplied[fileID]
		}
		result.Applied = append(result.Applied, Applied{
			ID:    cand.id,
			Title: cand.fix.Title,
			Code:  cand.code,
			Path:  displayPath(fs, cand.at.File),
			Edits: len(cand.fix.Edits),
		})
	}

	sort.Slice(dirty, func(i, j int) bool { return dirty[i] < dirty[j] })
	for _, fileID := range dirty {
		file := fs.Get(fileID)
		if err := writeBack(file, buffers[fileID]); err != nil {
			return err
		}
		result.Files = append(result.Files, FileChange{Path: displayPath(fs, fileID), Edits: counts[fileID]})
	}
	return nil
}

func writeBack(file *source.File, content []byte) error {
	current, err := os.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("read %s: %w", file.Path, err)
	}
	if !bytes.Equal(current, file.Content) {
		return fmt.Errorf("%s changed since it was read", file.Path)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(file.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(file.Path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", file.Path, err)
	}
	return nil
}

func fileOrder(edits []diag.FixEdit) []source.FileID {
	var ids []source.FileID
	seen := make(map[source.FileID]bool)
	for _, e := range edits {
		if !seen[e.Span.File] {
			seen[e.Span.File] = true
			ids = append(ids, e.Span.File)
		}
	}
	return ids
}

func editsFor(edits []diag.FixEdit, fileID source.FileID) []diag.FixEdit {
	var out []diag.FixEdit
	for _, e := range edits {
		if e.Span.File == fileID {
			out = append(out, e)
		}
	}
	return out
}

func conflicts(existing, edits []diag.FixEdit) bool {
	for _, prev := range existing {
		for _, e := range edits {
			if spansConflict(prev.Span, e.Span) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two half-open spans overlap. Two insertions
// never conflict; an insertion conflicts with a span strictly containing it.
func spansConflict(a, b source.Span) bool {
	switch {
	case a.Start == a.End && b.Start == b.End:
		return false
	case a.Start == a.End:
		return b.Start <= a.Start && a.Start < b.End
	case b.Start == b.End:
		return a.Start <= b.Start && b.Start < a.End
	default:
		return a.Start < b.End && b.Start < a.End
	}
}

// delta is the size change at pos caused by edits that end before it.
func delta(edits []diag.FixEdit, pos uint32) int {
	d := 0
	for _, e := range edits {
		if e.Span.Start > pos {
			break
		}
		if e.Span.End <= pos {
			d += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return d
}

func insertSorted(edits []diag.FixEdit, edit diag.FixEdit) []diag.FixEdit {
	i := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.FixEdit{})
	copy(edits[i+1:], edits[i:])
	edits[i] = edit
	return edits
}

func displayPath(fs *source.FileSet, id source.FileID) string {
	if int(id) >= fs.Len() {
		return ""
	}
	return fs.Get(id).FormatPath("auto", fs.BaseDir())
}
