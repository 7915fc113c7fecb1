package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateCookie(t *testing.T) {
	exp := time.Now().Add(time.Hour)

	ck := CreateCookie(AccessCookie, "tok", "/", exp, false)
	assert.Equal(t, "tok", ck.Value)
	assert.True(t, ck.HttpOnly)
	assert.False(t, ck.Secure)

	assert.True(t, CreateCookie(AccessCookie, "tok", "/", exp, true).Secure)
}

func TestDeleteCookie(t *testing.T) {
	ck := DeleteCookie(RefreshCookie, "/", true)
	assert.Empty(t, ck.Value)
	assert.Equal(t, -1, ck.MaxAge)
	assert.True(t, ck.Secure)
	assert.False(t, DeleteCookie(RefreshCookie, "/", false).Secure)
}

func TestSha256Hex(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", Sha256Hex("hello"))
	assert.NotEqual(t, NewJTI(), NewJTI())
}
