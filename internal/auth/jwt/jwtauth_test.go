package jwt

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)
	tok, err := NewToken(jwtAuth, time.Hour, "domain-1")
	require.NoError(t, err)

	domain, err := VerifyToken(jwtAuth, tok)
	assert.NoError(t, err)
	assert.Equal(t, "domain-1", domain)

	other := jwtauth.New("HS256", []byte("other"), nil)
	_, err = VerifyToken(other, tok)
	assert.Error(t, err)
}

func TestTokenExpired(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)
	tok, err := NewToken(jwtAuth, -time.Minute, "domain-1")
	require.NoError(t, err)

	_, err = VerifyToken(jwtAuth, tok)
	assert.Error(t, err)
}

func TestTokenWithoutDomain(t *testing.T) {
	jwtAuth := jwtauth.New("HS256", []byte("secret"), nil)
	tok, err := NewToken(jwtAuth, time.Hour, "")
	require.NoError(t, err)

	_, err = VerifyToken(jwtAuth, tok)
	assert.Error(t, err)
}

func TestDomainFromClaims(t *testing.T) {
	d, ok := DomainFromClaims(map[string]interface{}{DomainClaim: "d1"})
	assert.True(t, ok)
	assert.Equal(t, "d1", d)

	_, ok = DomainFromClaims(map[string]interface{}{DomainClaim: 42})
	assert.False(t, ok)
	_, ok = DomainFromClaims(nil)
	assert.False(t, ok)
}
