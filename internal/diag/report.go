package diag

import "spoke/internal/source"

// Reporter receives finished diagnostics. The lexer, the suite generator and
// the driver all report through it.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adds every report to Bag; a nil Bag drops them.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// ReporterFunc lets a plain function act as a Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Pending is a diagnostic being assembled. Emit hands it to the reporter at
// most once; a nil reporter swallows it.
type Pending struct {
	to   Reporter
	d    Diagnostic
	sent bool
}

// Build starts a diagnostic for r.
func Build(r Reporter, sev Severity, code Code, primary source.Span, msg string) *Pending {
	return &Pending{to: r, d: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return Build(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return Build(r, SevWarning, code, primary, msg)
}

func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *Pending {
	return Build(r, SevInfo, code, primary, msg)
}

func (p *Pending) WithNote(sp source.Span, msg string) *Pending {
	p.d = p.d.WithNote(sp, msg)
	return p
}

func (p *Pending) WithFix(title string, edits ...FixEdit) *Pending {
	p.d = p.d.WithFix(title, edits...)
	return p
}

func (p *Pending) Emit() {
	if p.sent {
		return
	}
	p.sent = true
	if p.to != nil {
		p.to.Report(p.d)
	}
}

// Diagnostic returns what has been assembled so far.
func (p *Pending) Diagnostic() Diagnostic { return p.d }
