package multigath_test

import (
	"errors"
	"testing"

	"github.com/programme-lv/grader/internal/gatherer/multigath"
	"github.com/programme-lv/grader/internal/grader/mocks"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/verdict"
	"go.uber.org/mock/gomock"
)

func TestForwardsToAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := mocks.NewMockGatherer(ctrl)
	b := mocks.NewMockGatherer(ctrl)
	m := multigath.New(a)
	m.Add(b)

	v := verdict.Verdict{Primary: verdict.Accepted, Message: "OK"}
	err := errors.New("boom")
	for _, g := range []*mocks.MockGatherer{a, b} {
		gomock.InOrder(
			g.EXPECT().StartRun("grade", []string{"A.cpp"}),
			g.EXPECT().StartCompile("A.cpp"),
			g.EXPECT().FinishCompile("A.cpp", lang.Build{OK: true}),
			g.EXPECT().StartTesting(),
			g.EXPECT().ReachTest("1"),
			g.EXPECT().FinishTest("1", v),
			g.EXPECT().ReportMismatch("1", verdict.Mismatch{}),
			g.EXPECT().FinishRun(verdict.Summary{Total: 1, Correct: 1}),
			g.EXPECT().FinishWithError(err),
		)
	}

	m.StartRun("grade", []string{"A.cpp"})
	m.StartCompile("A.cpp")
	m.FinishCompile("A.cpp", lang.Build{OK: true})
	m.StartTesting()
	m.ReachTest("1")
	m.FinishTest("1", v)
	m.ReportMismatch("1", verdict.Mismatch{})
	m.FinishRun(verdict.Summary{Total: 1, Correct: 1})
	m.FinishWithError(err)
}
