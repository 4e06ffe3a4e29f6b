// Package awssts resolves the AWS identity behind the loaded credentials.
package awssts

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// NewService creates a new STS service.
func NewService(awsconfig aws.Config) Service {
	return newWithClient(sts.NewFromConfig(awsconfig))
}

func newWithClient(client STSClientAPI) Service {
	return &service{client: client}
}

// WhoAmI returns the account and ARN of the loaded credentials.
func (s *service) WhoAmI(ctx context.Context) (Identity, error) {
	out, err := s.client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return Identity{}, fmt.Errorf("failed to resolve caller identity: %w", err)
	}

	arn := aws.ToString(out.Arn)
	if arn == "" {
		return Identity{}, ErrNoIdentity
	}

	return Identity{Account: aws.ToString(out.Account), ARN: arn}, nil
}
