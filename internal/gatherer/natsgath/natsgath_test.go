package natsgath_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/programme-lv/grader/api"
	"github.com/programme-lv/grader/internal/gatherer/natsgath"
	"github.com/programme-lv/grader/internal/lang"
	"github.com/programme-lv/grader/internal/verdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	subject string
	data    []byte
}

type fakeConn struct {
	msgs []published
	err  error
}

func (f *fakeConn) Publish(subj string, data []byte) error {
	f.msgs = append(f.msgs, published{subj, data})
	return f.err
}

func TestPublishesEvents(t *testing.T) {
	conn := &fakeConn{}
	g := natsgath.New(conn, "run-1", "grader.events")

	g.StartRun("grade", []string{"A.cpp"})
	g.FinishCompile("A.cpp", lang.Build{OK: true, Cached: true})
	g.FinishTest("1", verdict.Verdict{Primary: verdict.WrongAnswer, OverTime: true, Message: "bad", Elapsed: []time.Duration{time.Second}})
	g.FinishRun(verdict.Summary{Total: 1})

	require.Len(t, conn.msgs, 4)
	for _, m := range conn.msgs {
		assert.Equal(t, "grader.events", m.subject)
	}

	var start api.StartRun
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &start))
	assert.Equal(t, api.StartRunMsg, start.MsgType)
	assert.Equal(t, "run-1", start.RunUuid)
	assert.Equal(t, []string{"A.cpp"}, start.Programs)

	var test api.FinishTest
	require.NoError(t, json.Unmarshal(conn.msgs[2].data, &test))
	assert.Equal(t, "WT", test.Verdict)
	assert.False(t, test.Correct)
	assert.Equal(t, []int64{1000}, test.WallMillis)

	var fin api.FinishRun
	require.NoError(t, json.Unmarshal(conn.msgs[3].data, &fin))
	assert.Equal(t, 1, fin.Total)
	assert.Nil(t, fin.ErrorMessage)
}

func TestPublishFailureIsNotFatal(t *testing.T) {
	conn := &fakeConn{err: errors.New("connection closed")}
	g := natsgath.New(conn, "run-1", "grader.events")

	g.FinishWithError(errors.New("no tests found"))

	require.Len(t, conn.msgs, 1)
	var fin api.FinishRun
	require.NoError(t, json.Unmarshal(conn.msgs[0].data, &fin))
	require.NotNil(t, fin.ErrorMessage)
	assert.Equal(t, "no tests found", *fin.ErrorMessage)
}
