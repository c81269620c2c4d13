// Package multigath fans run events out to several gatherers.
package multigath

import (
	"github.com/programme-lv/grader/internal/grader"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/verdict"
)

type Multi struct {
	gs []grader.Gatherer
}

// New returns a gatherer forwarding every event to each of gs, in order.
func New(gs ...grader.Gatherer) *Multi {
	return &Multi{gs: gs}
}

// Add appends g to the receivers.
func (m *Multi) Add(g grader.Gatherer) {
	m.gs = append(m.gs, g)
}

func (m *Multi) StartRun(mode string, programs []string) {
	for _, g := range m.gs {
		g.StartRun(mode, programs)
	}
}

func (m *Multi) StartCompile(program string) {
	for _, g := range m.gs {
		g.StartCompile(program)
	}
}

func (m *Multi) FinishCompile(program string, b lang.Build) {
	for _, g := range m.gs {
		g.FinishCompile(program, b)
	}
}

func (m *Multi) StartTesting() {
	for _, g := range m.gs {
		g.StartTesting()
	}
}

func (m *Multi) ReachTest(label string) {
	for _, g := range m.gs {
		g.ReachTest(label)
	}
}

func (m *Multi) FinishTest(label string, v verdict.Verdict) {
	for _, g := range m.gs {
		g.FinishTest(label, v)
	}
}

func (m *Multi) ReportMismatch(label string, mm verdict.Mismatch) {
	for _, g := range m.gs {
		g.ReportMismatch(label, mm)
	}
}

func (m *Multi) FinishRun(s verdict.Summary) {
	for _, g := range m.gs {
		g.FinishRun(s)
	}
}

func (m *Multi) FinishWithError(err error) {
	for _, g := range m.gs {
		g.FinishWithError(err)
	}
}
