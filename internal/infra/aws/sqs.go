package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"healthwatch/pkg/resource"
)

// NewSqsClient creates an SQS client, honoring a custom endpoint when set
func NewSqsClient(cfg aws.Config) *sqs.Client {
	return sqs.NewFromConfig(cfg, func(o *sqs.Options) {
		if endpoint := resource.GetString("app.cloud.aws-endpoint"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

// SqsSender adapts the SQS client to the notifier's queue port
type SqsSender struct {
	client *sqs.Client
}

// NewSqsSender creates a sender over the given client
func NewSqsSender(client *sqs.Client) *SqsSender {
	return &SqsSender{client: client}
}

// SendMessage serializes body to JSON and sends it to the queue URL
func (s *SqsSender) SendMessage(ctx context.Context, queueURL string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to serialize message body to JSON: %w", err)
	}

	_, err = s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(queueURL),
		MessageBody: aws.String(string(jsonBody)),
	})
	if err != nil {
		return fmt.Errorf("failed to send message to queue %s: %w", queueURL, err)
	}
	return nil
}
