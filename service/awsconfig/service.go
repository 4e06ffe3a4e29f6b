// Package awsconfig loads AWS configuration for artifact publishing.
package awsconfig

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials/stscreds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// loadSharedConfigProfile and loadDefaultConfig are variables to allow mocking in tests.
var (
	loadSharedConfigProfile = config.LoadSharedConfigProfile
	loadDefaultConfig       = config.LoadDefaultConfig
)

// fallbackSTSRegion is used for AssumeRole when neither flag nor profile names a region.
const fallbackSTSRegion = "us-east-1"

// NewService creates a new AWS configuration service.
func NewService() Service {
	return &service{}
}

// GetAWSCfg loads SDK config for an upload. Empty region and profile defer to the
// SDK's environment and shared-file resolution.
func (s *service) GetAWSCfg(ctx context.Context, region, profile string) (aws.Config, error) {
	if profile != "" {
		shared, err := loadSharedConfigProfile(ctx, profile)
		if err == nil && shared.RoleARN != "" && shared.MFASerial != "" {
			return s.assumeRoleWithMFA(ctx, region, shared)
		}
	}

	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	opts = append(opts, config.WithAssumeRoleCredentialOptions(func(o *stscreds.AssumeRoleOptions) {
		o.TokenProvider = stscreds.StdinTokenProvider
	}))

	cfg, err := loadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load AWS config: %w", err)
	}
	return cfg, retrieve(ctx, cfg)
}

// assumeRoleWithMFA builds credentials from the source profile explicitly, prompting
// for the MFA code on stdin before any spinner starts.
func (s *service) assumeRoleWithMFA(ctx context.Context, region string, shared config.SharedConfig) (aws.Config, error) {
	source := shared.SourceProfileName
	if source == "" {
		source = "default"
	}
	target := region
	if target == "" {
		target = shared.Region
	}
	stsRegion := target
	if stsRegion == "" {
		stsRegion = fallbackSTSRegion
	}

	baseCfg, err := loadDefaultConfig(ctx, config.WithSharedConfigProfile(source), config.WithRegion(stsRegion))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load source profile %s: %w", source, err)
	}

	provider := stscreds.NewAssumeRoleProvider(sts.NewFromConfig(baseCfg), shared.RoleARN, func(o *stscreds.AssumeRoleOptions) {
		o.SerialNumber = aws.String(shared.MFASerial)
		o.TokenProvider = stscreds.StdinTokenProvider
	})

	opts := []func(*config.LoadOptions) error{
		config.WithCredentialsProvider(aws.NewCredentialsCache(provider)),
	}
	if target != "" {
		opts = append(opts, config.WithRegion(target))
	}
	cfg, err := loadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load config for role %s: %w", shared.RoleARN, err)
	}
	return cfg, retrieve(ctx, cfg)
}

func retrieve(ctx context.Context, cfg aws.Config) error {
	if cfg.Credentials == nil {
		return nil
	}
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return fmt.Errorf("failed to retrieve credentials: %w", err)
	}
	return nil
}
