package awssts

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ErrNoIdentity is returned when STS answers without an ARN.
var ErrNoIdentity = errors.New("caller identity has no ARN")

// STSClientAPI is the interface for the AWS STS client methods used by the service.
type STSClientAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Identity is who uploads will be made as.
type Identity struct {
	Account string `json:"account"`
	ARN     string `json:"arn"`
}

type service struct {
	client STSClientAPI
}

// Service resolves the credentials in use before publishing artifacts.
type Service interface {
	WhoAmI(ctx context.Context) (Identity, error)
}
