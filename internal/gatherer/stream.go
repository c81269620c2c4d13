// Package gatherer holds the pieces shared by gatherers that forward run events as api
// messages to a message broker.
package gatherer

import (
	"fmt"
	"os"
	"runtime"

	"github.com/programme-lv/grader/api"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/verdict"
)

// Stream turns gatherer calls into api messages and hands each one to Send.
type Stream struct {
	RunUuid string
	Send    func(msg any)
}

func (s *Stream) StartRun(mode string, programs []string) {
	s.Send(api.NewStartRun(s.RunUuid, mode, programs, SystemInfo()))
}

func (s *Stream) StartCompile(program string) {
	s.Send(api.NewStartCompile(s.RunUuid, program))
}

func (s *Stream) FinishCompile(program string, b lang.Build) {
	s.Send(api.NewFinishCompile(s.RunUuid, program, b.OK, b.Skipped, b.Cached, string(b.Output), b.Duration))
}

func (s *Stream) StartTesting() {
	s.Send(api.NewStartTesting(s.RunUuid))
}

func (s *Stream) ReachTest(label string) {
	s.Send(api.NewReachTest(s.RunUuid, label))
}

func (s *Stream) FinishTest(label string, v verdict.Verdict) {
	s.Send(api.NewFinishTest(s.RunUuid, label, v.Code(), v.Message, v.Correct(), v.Elapsed))
}

func (s *Stream) ReportMismatch(label string, m verdict.Mismatch) {
	s.Send(api.NewMismatch(s.RunUuid, label, m.Input, m.Expected, m.Actual))
}

func (s *Stream) FinishRun(sum verdict.Summary) {
	s.Send(api.NewFinishRun(s.RunUuid, sum.Total, sum.Correct, nil))
}

func (s *Stream) FinishWithError(err error) {
	msg := err.Error()
	s.Send(api.NewFinishRun(s.RunUuid, 0, 0, &msg))
}

// SystemInfo describes the machine a run happens on.
func SystemInfo() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s %s/%s %s", host, runtime.GOOS, runtime.GOARCH, runtime.Version())
}
