// Package cognito adapts the Cognito user pool admin API to the narrow
// capabilities the rest of the module needs.
package cognito

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

type adminAPI interface {
	AdminAddUserToGroup(
		ctx context.Context,
		params *cognitoidentityprovider.AdminAddUserToGroupInput,
		optFns ...func(*cognitoidentityprovider.Options),
	) (*cognitoidentityprovider.AdminAddUserToGroupOutput, error)
}

// Client issues group membership changes against a user pool.
type Client struct {
	api adminAPI
}

// New creates a client using the default AWS credential chain. An empty
// region defers to the environment (AWS_REGION inside Lambda).
func New(ctx context.Context, region string) (*Client, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("cognito: load aws config: %w", err)
	}

	return &Client{api: cognitoidentityprovider.NewFromConfig(cfg)}, nil
}

// AddUserToGroup adds username to group in the given user pool. The call is
// not preceded by a membership check; Cognito treats re-adding a member as a
// no-op.
func (c *Client) AddUserToGroup(ctx context.Context, userPoolID, username, group string) error {
	_, err := c.api.AdminAddUserToGroup(ctx, &cognitoidentityprovider.AdminAddUserToGroupInput{
		UserPoolId: aws.String(userPoolID),
		Username:   aws.String(username),
		GroupName:  aws.String(group),
	})
	if err != nil {
		return fmt.Errorf("cognito: add user %s to group %s: %w", username, group, err)
	}
	return nil
}
