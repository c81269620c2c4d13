package sqsgath_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/grader/api"
	"github.com/programme-lv/grader/internal/gatherer/sqsgath"
	"github.com/programme-lv/grader/internal/verdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sqs.SendMessageOutput{MessageId: aws.String("id")}, nil
}

func TestSendsToQueue(t *testing.T) {
	client := &fakeSQS{}
	g := sqsgath.New(client, "run-7", "https://sqs.example/queue")

	g.StartTesting()
	g.ReportMismatch("2", verdict.Mismatch{Input: "1\n", Expected: "2\n", Actual: "3\n"})

	require.Len(t, client.inputs, 2)
	assert.Equal(t, "https://sqs.example/queue", aws.ToString(client.inputs[0].QueueUrl))

	var m api.Mismatch
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(client.inputs[1].MessageBody)), &m))
	assert.Equal(t, api.MismatchMsg, m.MsgType)
	assert.Equal(t, "run-7", m.RunUuid)
	assert.Equal(t, "2", m.Label)
	assert.Equal(t, "3\n", m.Actual)
}
