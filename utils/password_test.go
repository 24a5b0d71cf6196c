package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mizutamari/gallery/utils"
)

func TestVerifyAdminPassword_Plaintext(t *testing.T) {
	assert.True(t, utils.VerifyAdminPassword("123456", "123456"))
	assert.False(t, utils.VerifyAdminPassword("123456", "654321"))
	assert.False(t, utils.VerifyAdminPassword("123456", ""))
	assert.False(t, utils.VerifyAdminPassword("123456", "1234567"))
}

func TestVerifyAdminPassword_EmptyConfigRejectsAll(t *testing.T) {
	assert.False(t, utils.VerifyAdminPassword("", ""))
	assert.False(t, utils.VerifyAdminPassword("", "anything"))
}

func TestVerifyAdminPassword_BcryptHash(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass")
	require.NoError(t, err)

	assert.True(t, utils.VerifyAdminPassword(hash, "s3cret-pass"))
	assert.False(t, utils.VerifyAdminPassword(hash, "wrong-pass"))
	assert.False(t, utils.VerifyAdminPassword(hash, ""))
}
