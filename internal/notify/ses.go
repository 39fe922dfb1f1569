package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the subset of the SES client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier emails operators a plain-text summary.
type SESNotifier struct {
	Client SESAPI
	From   string
	To     []string
}

// NewSESNotifier builds a notifier from an AWS config.
func NewSESNotifier(cfg aws.Config, from string, to []string) *SESNotifier {
	return &SESNotifier{Client: ses.NewFromConfig(cfg), From: from, To: to}
}

func (n *SESNotifier) NotifySubmission(ctx context.Context, e Event) error {
	if len(n.To) == 0 {
		return errors.New("ses notifier has no recipients")
	}
	_, err := n.Client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(n.From),
		Destination: &sestypes.Destination{ToAddresses: n.To},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(Subject(e)), Charset: aws.String("UTF-8")},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(Body(e)), Charset: aws.String("UTF-8")},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send email: %w", err)
	}
	return nil
}
