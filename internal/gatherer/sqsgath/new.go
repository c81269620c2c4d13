package sqsgath

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/grader/internal/gatherer"
)

const DefaultRegion = "eu-central-1"

// SendMessageAPI is the part of *sqs.Client the gatherer needs.
type SendMessageAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

type sqsResQueueGatherer struct {
	gatherer.Stream
	client   SendMessageAPI
	queueUrl string
}

// New creates a gatherer that sends every run event to the SQS queue at queueUrl.
func New(client SendMessageAPI, runUuid string, queueUrl string) *sqsResQueueGatherer {
	g := &sqsResQueueGatherer{
		client:   client,
		queueUrl: queueUrl,
	}
	g.Stream = gatherer.Stream{RunUuid: runUuid, Send: g.send}
	return g
}

// NewClient builds an SQS client from the default AWS credential chain.
func NewClient(ctx context.Context, region string) (*sqs.Client, error) {
	if region == "" {
		region = DefaultRegion
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return sqs.NewFromConfig(cfg), nil
}
