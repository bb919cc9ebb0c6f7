package diag

import (
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode selects whether the formatter emits ANSI styling.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

type styles struct {
	error   lipgloss.Style
	note    lipgloss.Style
	gutter  lipgloss.Style
	primary lipgloss.Style
	help    lipgloss.Style
}

// Formatter formats diagnostics in a Rust-style format with source code snippets.
type Formatter struct {
	w       io.Writer
	sources map[string]string // source text by filename, "" for stdin
	styles  styles
}

// NewFormatter creates a formatter writing to w. With ColorAuto the
// renderer inspects w and only styles output for a color terminal.
func NewFormatter(w io.Writer, mode ColorMode) *Formatter {
	var r *lipgloss.Renderer
	switch mode {
	case ColorAlways:
		r = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.ANSI256))
	case ColorNever:
		r = lipgloss.NewRenderer(w, termenv.WithProfile(termenv.Ascii))
	default:
		r = lipgloss.NewRenderer(w)
	}

	return &Formatter{
		w:       w,
		sources: make(map[string]string),
		styles: styles{
			error:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			note:    r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
			gutter:  r.NewStyle().Foreground(lipgloss.Color("12")),
			primary: r.NewStyle().Foreground(lipgloss.Color("9")),
			help:    r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		},
	}
}

// AddSource registers the text of a source so snippets can be shown for
// spans that point into it.
func (f *Formatter) AddSource(filename, src string) {
	f.sources[filename] = src
}

// Format writes d, with a source snippet when the span's source is known.
func (f *Formatter) Format(d Diagnostic) {
	spans := f.collectSpans(d)

	f.printHeader(d)

	if len(spans) == 0 {
		f.printHelp(d)
		return
	}

	loc := spans[0].Span
	if d.Span.IsValid() {
		loc = d.Span
	}

	src, ok := f.sources[loc.Filename]
	if !ok {
		fmt.Fprintf(f.w, "  %s %s\n", f.styles.gutter.Render("-->"), loc.String())
		f.printHelp(d)
		return
	}

	f.printFileSpans(src, loc, spans)
	f.printHelp(d)
}

// collectSpans collects all spans from the diagnostic, prioritizing LabeledSpans.
func (f *Formatter) collectSpans(d Diagnostic) []LabeledSpan {
	if len(d.LabeledSpans) > 0 {
		return slices.Clone(d.LabeledSpans)
	}
	if d.Span.IsValid() {
		return []LabeledSpan{{Span: d.Span, Style: "primary"}}
	}
	return nil
}

// printHeader prints the error header (error[CODE]: message).
func (f *Formatter) printHeader(d Diagnostic) {
	severity := string(d.Severity)
	if severity == "" {
		severity = string(SeverityError)
	}

	if d.Code != "" {
		severity = fmt.Sprintf("%s[%s]", severity, d.Code)
	}
	fmt.Fprintf(f.w, "%s: %s\n", f.styles.error.Render(severity), d.Message)
}

// printFileSpans prints source code with underlines for spans.
func (f *Formatter) printFileSpans(src string, loc Span, spans []LabeledSpan) {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].Span.Line != spans[j].Span.Line {
			return spans[i].Span.Line < spans[j].Span.Line
		}
		return spans[i].Span.Column < spans[j].Span.Column
	})

	lines := strings.Split(src, "\n")
	maxLine := len(lines)

	spansByLine := make(map[int][]LabeledSpan)
	for _, span := range spans {
		line := span.Span.Line
		if line > 0 && line <= maxLine {
			spansByLine[line] = append(spansByLine[line], span)
		}
	}

	fmt.Fprintf(f.w, "  %s %s\n", f.styles.gutter.Render("-->"), loc.String())

	if len(spansByLine) == 0 {
		return
	}

	startLine := spans[0].Span.Line
	endLine := spans[len(spans)-1].Span.Line

	// One line of context on either side.
	contextStart := max(1, startLine-1)
	contextEnd := min(maxLine, endLine+1)

	lineNumWidth := len(fmt.Sprintf("%d", contextEnd))
	blank := f.styles.gutter.Render(strings.Repeat(" ", lineNumWidth+1) + "|")

	fmt.Fprintf(f.w, "  %s\n", blank)
	for lineNum := contextStart; lineNum <= contextEnd; lineNum++ {
		content := strings.TrimRight(lines[lineNum-1], "\r")
		gutter := f.styles.gutter.Render(fmt.Sprintf("%*d |", lineNumWidth, lineNum))
		fmt.Fprintf(f.w, "  %s %s\n", gutter, content)

		if lineSpans := spansByLine[lineNum]; len(lineSpans) > 0 {
			f.printUnderlines(blank, content, lineSpans)
		}
	}
	fmt.Fprintf(f.w, "  %s\n", blank)
}

// printUnderlines prints ^ under primary spans and ~ under secondary ones.
func (f *Formatter) printUnderlines(blank, content string, spans []LabeledSpan) {
	width := len(content) + 1
	for _, span := range spans {
		if end := span.Span.Column + max(1, span.Span.End-span.Span.Start); end > width {
			width = end
		}
	}
	underline := []byte(strings.Repeat(" ", width))

	mark := func(span LabeledSpan, ch byte) {
		start := max(0, span.Span.Column-1)
		end := start + max(1, span.Span.End-span.Span.Start)
		for i := start; i < end && i < len(underline); i++ {
			if underline[i] == ' ' {
				underline[i] = ch
			}
		}
	}
	for _, span := range spans {
		if span.Style == "primary" {
			mark(span, '^')
		}
	}
	for _, span := range spans {
		if span.Style == "secondary" {
			mark(span, '~')
		}
	}

	var labels []string
	for _, style := range []string{"primary", "secondary"} {
		for _, span := range spans {
			if span.Style == style && span.Label != "" {
				labels = append(labels, span.Label)
			}
		}
	}

	marks := strings.TrimRight(string(underline), " ")
	line := f.styles.primary.Render(marks)
	if len(labels) > 0 {
		line += " " + f.styles.primary.Render(strings.Join(labels, "; "))
	}
	fmt.Fprintf(f.w, "  %s %s\n", blank, line)
}

// printHelp prints notes and help text.
func (f *Formatter) printHelp(d Diagnostic) {
	for _, note := range d.Notes {
		fmt.Fprintf(f.w, "  = %s: %s\n", f.styles.note.Render("note"), note)
	}
	if d.Help != "" {
		fmt.Fprintf(f.w, "%s: %s\n", f.styles.help.Render("help"), d.Help)
	}
}
