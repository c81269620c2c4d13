// Package termgath prints a run to the terminal in the classic grader layout:
// one line per test, then the result line.
package termgath

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/verdict"
)

const (
	sep = "--------------------------------------------------"
	pad = "\t"
)

var (
	heading = color.New(color.FgBlue, color.Bold)
	info    = color.New(color.FgCyan, color.Bold)
	good    = color.New(color.FgGreen, color.Bold)
	bad     = color.New(color.FgRed, color.Bold)
	plain   = color.New(color.Bold)
)

type TerminalGatherer struct {
	w         io.Writer
	StartedAt time.Time
}

func New(w io.Writer) *TerminalGatherer {
	return &TerminalGatherer{w: w, StartedAt: time.Now()}
}

func (t *TerminalGatherer) StartRun(mode string, programs []string) {
	t.StartedAt = time.Now()
	switch {
	case mode == "grade" && len(programs) == 1:
		heading.Fprintf(t.w, "GRADING %s\n", programs[0])
	case mode == "output" && len(programs) == 1:
		heading.Fprintf(t.w, "GET OUTPUT FOR %s\n", programs[0])
	case mode == "compare" && len(programs) == 2:
		heading.Fprintf(t.w, "COMPARING CORRECT %s AGAINST %s\n", programs[0], programs[1])
		fmt.Fprintln(t.w)
	case mode == "sweep" && len(programs) == 1:
		heading.Fprintf(t.w, "SWEEPING SUBMISSIONS AGAINST %s\n", programs[0])
		fmt.Fprintln(t.w)
	default:
		heading.Fprintf(t.w, "%s %s\n", strings.ToUpper(mode), strings.Join(programs, " "))
	}
}

func (t *TerminalGatherer) StartCompile(program string) {}

func (t *TerminalGatherer) FinishCompile(program string, b lang.Build) {
	switch {
	case b.Skipped:
		plain.Fprintf(t.w, " * No compilation for %s.\n", program)
	case b.Cached:
		good.Fprintf(t.w, " * Compilation of %s cached\n", program)
	case b.OK:
		info.Fprintf(t.w, " * Compiling %s\n", program)
		t.writeDiagnostics(b.Output)
		good.Fprintln(t.w, " * Compilation successful!")
	default:
		info.Fprintf(t.w, " * Compiling %s\n", program)
		t.writeDiagnostics(b.Output)
		bad.Fprintln(t.w, " * Compilation failed")
	}
}

func (t *TerminalGatherer) writeDiagnostics(out []byte) {
	if len(out) == 0 {
		return
	}
	t.w.Write(out)
	if out[len(out)-1] != '\n' {
		fmt.Fprintln(t.w)
	}
}

func (t *TerminalGatherer) StartTesting() {
	heading.Fprintln(t.w, "RUNNING TESTS")
}

func (t *TerminalGatherer) ReachTest(label string) {}

func (t *TerminalGatherer) FinishTest(label string, v verdict.Verdict) {
	fmt.Fprintf(t.w, " * Test %s: ", label)
	if v.Clean() {
		good.Fprint(t.w, v.Code())
	} else {
		bad.Fprint(t.w, v.Code())
	}
	fmt.Fprintf(t.w, " - %s", v.Message)
	if v.ShowsTime() {
		fmt.Fprintf(t.w, " [%s]", v.FormatElapsed())
	}
	fmt.Fprintln(t.w)
}

func (t *TerminalGatherer) ReportMismatch(label string, m verdict.Mismatch) {
	var b strings.Builder
	b.WriteString("\n")
	section(&b, "INPUT:", m.Input)
	section(&b, "CORRECT OUTPUT:", m.Expected)
	section(&b, "YOUR OUTPUT:", m.Actual)
	b.WriteString(pad + sep + "\n")
	fmt.Fprint(t.w, b.String())
}

func section(b *strings.Builder, title, content string) {
	b.WriteString(pad + sep + "\n")
	b.WriteString(pad + title + "\n")
	b.WriteString(pad + sep + "\n")
	for _, line := range strings.SplitAfter(content, "\n") {
		if line != "" {
			b.WriteString(pad + line)
		}
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
}

func (t *TerminalGatherer) FinishRun(s verdict.Summary) {
	fmt.Fprintln(t.w)
	if s.Total == 0 {
		plain.Fprint(t.w, "ERROR:")
		fmt.Fprintln(t.w, " No tests found! D:")
	} else {
		heading.Fprint(t.w, "RESULT:")
		fmt.Fprintf(t.w, " %d / %d\n", s.Correct, s.Total)
		if s.Perfect() {
			fmt.Fprintln(t.w, "Good job! :D")
		}
	}
	slog.Debug("run finished", "took", time.Since(t.StartedAt).Round(time.Millisecond))
}

func (t *TerminalGatherer) FinishWithError(err error) {
	bad.Fprint(t.w, "ERROR:")
	fmt.Fprintf(t.w, " %v\n", err)
}
