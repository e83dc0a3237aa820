package services

import (
	"context"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSSender delivers SMS through AWS SNS direct publish. Implements
// SMSSender.
type SNSSender struct {
	client   *awssns.Client
	senderID string
}

func NewSNSSender(ctx context.Context) (*SNSSender, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "ap-south-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SNSSender{
		client:   awssns.NewFromConfig(cfg),
		senderID: os.Getenv("SMS_SENDER_ID"),
	}, nil
}

func (s *SNSSender) Send(ctx context.Context, to, body string) error {
	input := &awssns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(body),
	}
	if s.senderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.senderID),
			},
		}
	}
	_, err := s.client.Publish(ctx, input)
	return err
}
