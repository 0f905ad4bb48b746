package cognito

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAdminAPI struct {
	input *cognitoidentityprovider.AdminAddUserToGroupInput
	err   error
}

func (f *fakeAdminAPI) AdminAddUserToGroup(
	_ context.Context,
	params *cognitoidentityprovider.AdminAddUserToGroupInput,
	_ ...func(*cognitoidentityprovider.Options),
) (*cognitoidentityprovider.AdminAddUserToGroupOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &cognitoidentityprovider.AdminAddUserToGroupOutput{}, nil
}

func TestAddUserToGroupSendsInput(t *testing.T) {
	api := &fakeAdminAPI{}
	c := &Client{api: api}

	err := c.AddUserToGroup(context.Background(), "pool-1", "alice", "VENDOR")
	require.NoError(t, err)

	require.NotNil(t, api.input)
	assert.Equal(t, "pool-1", aws.ToString(api.input.UserPoolId))
	assert.Equal(t, "alice", aws.ToString(api.input.Username))
	assert.Equal(t, "VENDOR", aws.ToString(api.input.GroupName))
}

func TestAddUserToGroupWrapsError(t *testing.T) {
	cause := errors.New("ResourceNotFoundException")
	c := &Client{api: &fakeAdminAPI{err: cause}}

	err := c.AddUserToGroup(context.Background(), "pool-1", "alice", "DRIVER")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "group DRIVER")
}
