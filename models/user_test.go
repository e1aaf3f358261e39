package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pos-fbr-backend/models"
)

func TestUserPasswordHashing(t *testing.T) {
	var user models.User
	require.NoError(t, user.SetPassword("s3cret-pw"))

	assert.NotEqual(t, "s3cret-pw", user.HashedPassword)
	assert.NoError(t, user.ComparePassword("s3cret-pw"))
	assert.Error(t, user.ComparePassword("wrong"))
}
