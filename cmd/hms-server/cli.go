package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/carepoint/hms/internal/domain/aiassist"
	"github.com/carepoint/hms/internal/platform/db"
)

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#399ee6", Dark: "#59c2ff"}
	colorMuted  = lipgloss.AdaptiveColor{Light: "#828c99", Dark: "#6c7680"}
	colorPass   = lipgloss.AdaptiveColor{Light: "#86b300", Dark: "#c2d94c"}
	colorWarn   = lipgloss.AdaptiveColor{Light: "#f2ae49", Dark: "#ffb454"}

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	passStyle  = lipgloss.NewStyle().Foreground(colorPass)
	warnStyle  = lipgloss.NewStyle().Foreground(colorWarn)
)

// printer writes command results, styled when attached to a terminal.
type printer struct {
	out    io.Writer
	styled bool
}

func newPrinter(out io.Writer) *printer {
	p := &printer{out: out}
	if f, ok := out.(*os.File); ok {
		p.styled = term.IsTerminal(int(f.Fd()))
	}
	return p
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.styled {
		return s
	}
	return style.Render(s)
}

func (p *printer) title(s string) {
	fmt.Fprintln(p.out, p.render(titleStyle, s))
}

func (p *printer) field(label, value string) {
	fmt.Fprintf(p.out, "%s %s\n", p.render(labelStyle, label+":"), value)
}

func (p *printer) json(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) diagnosis(res *aiassist.DiagnosisResult) {
	p.title("AI Diagnosis Result")
	p.field("Diagnosis", res.DiagnosisSuggestion)

	confidence := fmt.Sprintf("%.0f%%", res.ConfidenceLevel*100)
	if res.ConfidenceLevel >= 0.7 {
		confidence = p.render(passStyle, confidence)
	} else {
		confidence = p.render(warnStyle, confidence)
	}
	p.field("Confidence", confidence)

	if res.FactorsForConcern != nil {
		p.field("Factors for concern", *res.FactorsForConcern)
	}
	if res.SuggestedTreatment != nil {
		p.field("Suggested treatment", *res.SuggestedTreatment)
	}
}

func (p *printer) labReport(testName string, res *aiassist.LabReportResult) {
	p.title("Lab Report: " + testName)

	width := len("Analyte")
	for _, a := range res.Results {
		width = max(width, len(a.Analyte))
	}
	header := fmt.Sprintf("%-*s  %-12s  %s", width, "Analyte", "Result", "Reference")
	fmt.Fprintln(p.out, p.render(labelStyle, header))
	fmt.Fprintln(p.out, p.render(labelStyle, strings.Repeat("-", len(header))))
	for _, a := range res.Results {
		fmt.Fprintf(p.out, "%-*s  %-12s  %s\n", width, a.Analyte, a.Result, a.ReferenceRange)
	}
	fmt.Fprintln(p.out)
	p.field("Interpretation", res.Interpretation)
}

func (p *printer) migrations(statuses []db.MigrationStatus) {
	fmt.Fprintln(p.out, p.render(labelStyle, fmt.Sprintf("%-10s %-40s %-10s %s", "VERSION", "NAME", "STATUS", "APPLIED AT")))
	for _, s := range statuses {
		status := p.render(warnStyle, fmt.Sprintf("%-10s", "pending"))
		appliedAt := ""
		if s.Applied {
			status = p.render(passStyle, fmt.Sprintf("%-10s", "applied"))
			if s.AppliedAt != nil {
				appliedAt = s.AppliedAt.UTC().Format("2006-01-02 15:04:05")
			}
		}
		fmt.Fprintf(p.out, "%-10d %-40s %s %s\n", s.Version, s.Name, status, appliedAt)
	}
}
