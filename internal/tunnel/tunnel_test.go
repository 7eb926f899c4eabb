package tunnel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantdesk/tradechat-go/internal/config"
)

func TestClientConfigPasswordAuth(t *testing.T) {
	cc, err := clientConfig(config.SSHConfig{
		User:     "deploy",
		Password: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "deploy", cc.User)
	assert.Len(t, cc.Auth, 1)
}

func TestClientConfigRequiresSomeAuth(t *testing.T) {
	_, err := clientConfig(config.SSHConfig{User: "deploy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no SSH auth method")
}

func TestClientConfigMissingKeyFile(t *testing.T) {
	_, err := clientConfig(config.SSHConfig{
		User:    "deploy",
		KeyFile: "/nonexistent/id_ed25519",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key file")
}
