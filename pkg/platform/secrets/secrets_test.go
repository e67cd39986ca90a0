package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "medgate/pkg/domain-errors"
)

func TestHashAndVerify(t *testing.T) {
	secret, err := Generate()
	require.NoError(t, err)
	require.NotEmpty(t, secret)

	hash, err := Hash(secret)
	require.NoError(t, err)
	require.NotEqual(t, secret, hash)

	assert.NoError(t, Verify(secret, hash))

	err = Verify("wrong-key", hash)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestHashRejectsEmptySecret(t *testing.T) {
	_, err := Hash("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
