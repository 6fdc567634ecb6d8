package cloud

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient wraps AWS SNS for marketplace notifications.
type SNSClient struct {
	svc      *sns.Client
	topicArn string
}

// NewSNSClient loads AWS configuration and builds an SNS publisher for the
// given topic.
func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSClient{
		svc:      sns.NewFromConfig(cfg),
		topicArn: topicArn,
	}, nil
}

// SendAlert publishes a notification to the configured topic.
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	input := &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	}
	if _, err := c.svc.Publish(ctx, input); err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}

// SendSettlementAlert notifies that an energy transfer settled, with the
// final split between owner and driver.
func (c *SNSClient) SendSettlementAlert(ctx context.Context, transferID, ownerPayout, driverRefund uint64, denom string) error {
	subject := fmt.Sprintf("EV Marketplace: transfer %d settled", transferID)
	message := fmt.Sprintf(
		"Energy Transfer Settled\n\n"+
			"Transfer ID: %d\n"+
			"Owner payout: %d%s\n"+
			"Driver refund: %d%s\n"+
			"Time: %s\n",
		transferID,
		ownerPayout, denom,
		driverRefund, denom,
		time.Now().Format(time.RFC3339),
	)
	return c.SendAlert(ctx, subject, message)
}
