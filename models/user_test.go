package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 10, cost)
}

func TestComparePassword(t *testing.T) {
	hash, err := HashPassword("rahasia-banget")
	require.NoError(t, err)

	user := User{Username: "petani", Password: hash}
	assert.True(t, user.ComparePassword("rahasia-banget"))
	assert.False(t, user.ComparePassword("salah"))
	assert.False(t, user.ComparePassword(""))
}

func TestUserJSONHidesPasswordAndUsesMongoID(t *testing.T) {
	user := User{
		ID:       primitive.NewObjectID(),
		Username: "petani",
		Password: "hash-rahasia",
		Role:     RoleUser,
	}

	raw, err := json.Marshal(user)
	require.NoError(t, err)

	body := string(raw)
	assert.Contains(t, body, `"_id":`)
	assert.NotContains(t, body, `"id":`)
	assert.NotContains(t, body, "hash-rahasia")
	assert.NotContains(t, body, "password")
}
