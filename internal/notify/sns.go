package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSAPI is the subset of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes submission events to a topic as JSON.
type SNSNotifier struct {
	Client   SNSAPI
	TopicARN string
}

// NewSNSNotifier builds a notifier from an AWS config.
func NewSNSNotifier(cfg aws.Config, topicARN string) *SNSNotifier {
	return &SNSNotifier{Client: sns.NewFromConfig(cfg), TopicARN: topicARN}
}

func (n *SNSNotifier) NotifySubmission(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal sns event: %w", err)
	}
	subject := Subject(e)
	if len(subject) > 100 {
		subject = subject[:100]
	}
	_, err = n.Client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.TopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String("audit.submitted")},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish topic=%s: %w", n.TopicARN, err)
	}
	return nil
}
