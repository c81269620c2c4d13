package grader

import (
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/verdict"
)

//go:generate mockgen -source=gatherer.go -destination=mocks/gatherer.go -package=mocks

// Gatherer receives every observable step of a run. Implementations decide how the steps
// are shown or forwarded; a Gatherer is used from one goroutine at a time.
type Gatherer interface {
	StartRun(mode string, programs []string)

	StartCompile(program string)
	FinishCompile(program string, b lang.Build)

	StartTesting()
	ReachTest(label string)
	FinishTest(label string, v verdict.Verdict)
	ReportMismatch(label string, m verdict.Mismatch)

	// FinishRun closes a run that reached testing. A zero Total means no tests were found.
	FinishRun(s verdict.Summary)
	FinishWithError(err error)
}
