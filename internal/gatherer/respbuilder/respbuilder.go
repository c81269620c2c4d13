package respbuilder

import (
	"time"

	"github.com/programme-lv/grader/api"
	"github.com/programme-lv/grader/internal/gatherer"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/verdict"
)

// Builder gathers run events and builds a complete api.RunReport.
type Builder struct {
	runUuid    string
	systemInfo string

	started  time.Time
	finished *time.Time
	depth    int

	mode      string
	programs  []string
	candidate string

	compilations []api.CompileReport
	tests        []api.TestReport

	status       api.RunStatus
	total        int
	correct      int
	errorMessage *string

	// IsCompileError classifies the error passed to FinishWithError. Optional.
	IsCompileError func(error) bool
}

func New(runUuid string) *Builder {
	return &Builder{
		runUuid: runUuid,
		started: time.Now(),
		status:  api.Finished,
	}
}

// StartRun implements grader.Gatherer. Nested runs, as in a sweep, keep the outermost mode
// and programs.
func (b *Builder) StartRun(mode string, programs []string) {
	if len(programs) > 0 {
		b.candidate = programs[len(programs)-1]
	}
	b.depth++
	if b.depth > 1 {
		return
	}
	b.mode = mode
	b.programs = programs
	b.systemInfo = gatherer.SystemInfo()
}

// StartCompile implements grader.Gatherer.
func (b *Builder) StartCompile(program string) {}

// FinishCompile implements grader.Gatherer.
func (b *Builder) FinishCompile(program string, build lang.Build) {
	b.compilations = append(b.compilations, api.CompileReport{
		Program:    program,
		Success:    build.OK,
		Skipped:    build.Skipped,
		Cached:     build.Cached,
		Output:     api.TrimToRect(string(build.Output), api.MaxTextHeight, api.MaxTextWidth),
		WallMillis: build.Duration.Milliseconds(),
	})
}

// StartTesting implements grader.Gatherer.
func (b *Builder) StartTesting() {}

// ReachTest implements grader.Gatherer.
func (b *Builder) ReachTest(label string) {}

// FinishTest implements grader.Gatherer.
func (b *Builder) FinishTest(label string, v verdict.Verdict) {
	millis := make([]int64, len(v.Elapsed))
	for i, d := range v.Elapsed {
		millis[i] = d.Milliseconds()
	}
	b.tests = append(b.tests, api.TestReport{
		Program:    b.candidate,
		Label:      label,
		Verdict:    v.Code(),
		Message:    v.Message,
		Correct:    v.Correct(),
		WallMillis: millis,
	})
}

// ReportMismatch implements grader.Gatherer. File contents are left out of the report.
func (b *Builder) ReportMismatch(label string, m verdict.Mismatch) {}

// FinishRun implements grader.Gatherer.
func (b *Builder) FinishRun(s verdict.Summary) {
	if b.leave() {
		return
	}
	b.total, b.correct = s.Total, s.Correct
	if s.Total == 0 {
		b.status = api.NoTests
	}
	b.finish()
}

// FinishWithError implements grader.Gatherer.
func (b *Builder) FinishWithError(err error) {
	if b.leave() {
		return
	}
	b.status = api.InternalError
	if b.IsCompileError != nil && b.IsCompileError(err) {
		b.status = api.CompileError
	}
	msg := err.Error()
	b.errorMessage = &msg
	b.finish()
}

// leave closes one level of nesting and reports whether an outer run is still open.
func (b *Builder) leave() bool {
	b.depth--
	return b.depth > 0
}

func (b *Builder) finish() {
	now := time.Now()
	b.finished = &now
}

// Response builds the api.RunReport from gathered data.
func (b *Builder) Response() api.RunReport {
	start := b.started.Format(time.RFC3339)
	finish := start
	total := int64(0)
	if b.finished != nil {
		finish = b.finished.Format(time.RFC3339)
		total = b.finished.Sub(b.started).Milliseconds()
	}
	return api.RunReport{
		RunUuid:      b.runUuid,
		Mode:         b.mode,
		Programs:     b.programs,
		Status:       b.status,
		Compilations: b.compilations,
		Tests:        b.tests,
		Total:        b.total,
		Correct:      b.correct,
		ErrorMessage: func() *string {
			if b.errorMessage == nil {
				return nil
			}
			v := *b.errorMessage
			return &v
		}(),
		StartTime:   start,
		FinishTime:  finish,
		TotalTimeMs: total,
		SystemInfo: func() *string {
			if b.systemInfo == "" {
				return nil
			}
			v := b.systemInfo
			return &v
		}(),
	}
}
