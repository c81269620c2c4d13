package sqsgath

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

const sendTimeout = 10 * time.Second

func (s *sqsResQueueGatherer) send(msg any) {
	b, err := json.Marshal(msg)
	if err != nil {
		slog.Warn("failed to marshal message", "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueUrl),
		MessageBody: aws.String(string(b)),
	})
	if err != nil {
		slog.Warn("failed to send message to SQS", "queue", s.queueUrl, "err", err)
	}
}
