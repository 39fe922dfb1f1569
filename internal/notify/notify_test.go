package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSNS struct {
	in  *sns.PublishInput
	err error
}

func (f *fakeSNS) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	return &sns.PublishOutput{}, f.err
}

type fakeSES struct {
	in  *ses.SendEmailInput
	err error
}

func (f *fakeSES) SendEmail(_ context.Context, in *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.in = in
	return &ses.SendEmailOutput{}, f.err
}

type recordingNotifier struct {
	calls int
	err   error
}

func (r *recordingNotifier) NotifySubmission(context.Context, Event) error {
	r.calls++
	return r.err
}

func sampleEvent() Event {
	return Event{
		SessionToken:      "tok-1",
		CompanyName:       "Acme Agency",
		ContactName:       "Jo Smith",
		Email:             "jo@acme.test",
		ClientFolder:      "acme-agency-1a2b3c",
		OverallScore:      62,
		PrimaryConstraint: "Founder bottleneck",
		ValueGap:          125000,
		P0Systems:         2,
		SubmittedAt:       time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestSubjectAndBody(t *testing.T) {
	e := sampleEvent()
	assert.Equal(t, "New ExitLayer audit: Acme Agency (score 62)", Subject(e))

	body := Body(e)
	assert.Contains(t, body, "Contact: Jo Smith <jo@acme.test>")
	assert.Contains(t, body, "Primary constraint: Founder bottleneck")
	assert.Contains(t, body, "Client folder: acme-agency-1a2b3c")
	assert.Contains(t, body, "Submitted: 2026-01-02T03:04:05Z")

	assert.Contains(t, Subject(Event{}), "Unknown company")
	assert.NotContains(t, Body(Event{}), "Primary constraint")
}

func TestSNSNotifierPublishesJSON(t *testing.T) {
	fake := &fakeSNS{}
	n := &SNSNotifier{Client: fake, TopicARN: "arn:aws:sns:us-east-1:1:intake"}

	require.NoError(t, n.NotifySubmission(context.Background(), sampleEvent()))
	require.NotNil(t, fake.in)
	assert.Equal(t, "arn:aws:sns:us-east-1:1:intake", aws.ToString(fake.in.TopicArn))
	assert.Equal(t, "audit.submitted", aws.ToString(fake.in.MessageAttributes["event"].StringValue))

	var got Event
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.in.Message)), &got))
	assert.Equal(t, "tok-1", got.SessionToken)
	assert.Equal(t, 62, got.OverallScore)
}

func TestSNSNotifierTruncatesSubject(t *testing.T) {
	fake := &fakeSNS{}
	n := &SNSNotifier{Client: fake, TopicARN: "t"}
	e := sampleEvent()
	e.CompanyName = strings.Repeat("x", 150)

	require.NoError(t, n.NotifySubmission(context.Background(), e))
	assert.Len(t, aws.ToString(fake.in.Subject), 100)
}

func TestSNSNotifierWrapsError(t *testing.T) {
	boom := errors.New("boom")
	n := &SNSNotifier{Client: &fakeSNS{err: boom}, TopicARN: "t"}
	err := n.NotifySubmission(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, boom)
}

func TestSESNotifierSendsText(t *testing.T) {
	fake := &fakeSES{}
	n := &SESNotifier{Client: fake, From: "intake@exitlayer.test", To: []string{"ops@exitlayer.test"}}

	require.NoError(t, n.NotifySubmission(context.Background(), sampleEvent()))
	assert.Equal(t, "intake@exitlayer.test", aws.ToString(fake.in.Source))
	assert.Equal(t, []string{"ops@exitlayer.test"}, fake.in.Destination.ToAddresses)
	assert.Equal(t, Subject(sampleEvent()), aws.ToString(fake.in.Message.Subject.Data))
	assert.Contains(t, aws.ToString(fake.in.Message.Body.Text.Data), "Overall score: 62")
}

func TestSESNotifierRequiresRecipients(t *testing.T) {
	n := &SESNotifier{Client: &fakeSES{}, From: "a@b.test"}
	assert.Error(t, n.NotifySubmission(context.Background(), sampleEvent()))
}

func TestMultiJoinsErrors(t *testing.T) {
	ok := &recordingNotifier{}
	bad := &recordingNotifier{err: errors.New("down")}
	m := Multi{ok, nil, bad, Nop{}}

	err := m.NotifySubmission(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "down")
	assert.Equal(t, 1, ok.calls)
	assert.Equal(t, 1, bad.calls)
}
