package dkan_test

import (
	"testing"

	"github.com/dcgoodwin2112/dkan-client-go/pkg/dkan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Credential(t *testing.T) {
	t.Parallel()

	t.Run("token wins over basic auth", func(t *testing.T) {
		t.Parallel()

		config := &dkan.Config{
			Token:    "secret-token",
			Username: "admin",
			Password: "password",
		}

		cred := config.Credential()
		token, ok := cred.Token()
		require.True(t, ok)
		assert.Equal(t, "secret-token", token)

		_, _, ok = cred.Basic()
		assert.False(t, ok)
	})

	t.Run("username and password", func(t *testing.T) {
		t.Parallel()

		config := &dkan.Config{Username: "admin", Password: "password"}

		cred := config.Credential()
		username, password, ok := cred.Basic()
		require.True(t, ok)
		assert.Equal(t, "admin", username)
		assert.Equal(t, "password", password)
		assert.False(t, cred.IsZero())
	})

	t.Run("no credentials", func(t *testing.T) {
		t.Parallel()

		config := &dkan.Config{BaseURL: "https://demo.getdkan.org"}

		cred := config.Credential()
		assert.True(t, cred.IsZero())

		_, ok := cred.Token()
		assert.False(t, ok)

		_, _, ok = cred.Basic()
		assert.False(t, ok)
	})
}

func TestCredentialConstructors(t *testing.T) {
	t.Parallel()

	token, ok := dkan.TokenCredential("abc").Token()
	require.True(t, ok)
	assert.Equal(t, "abc", token)

	username, password, ok := dkan.BasicCredential("user", "pass").Basic()
	require.True(t, ok)
	assert.Equal(t, "user", username)
	assert.Equal(t, "pass", password)

	assert.True(t, dkan.NoCredential().IsZero())
	assert.False(t, dkan.TokenCredential("abc").IsZero())
}
