package jwt

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// DomainClaim is the private claim naming the domain a token may read analytics for.
const DomainClaim = "domain"

// VerifyToken checks the signature and expiry and returns the token's domain.
func VerifyToken(jwtAuth *jwtauth.JWTAuth, token string) (string, error) {
	t, err := jwtauth.VerifyToken(jwtAuth, token)
	if err != nil {
		return "", err
	}
	domain, ok := DomainFromClaims(t.PrivateClaims())
	if !ok {
		return "", fmt.Errorf("token has no %s claim", DomainClaim)
	}
	return domain, nil
}

// NewToken creates a JWT scoped to a single domain.
func NewToken(jwtAuth *jwtauth.JWTAuth, ttl time.Duration, domainId string) (string, error) {
	claims := map[string]interface{}{
		"exp":       time.Now().Add(ttl).Unix(),
		DomainClaim: domainId,
	}
	_, ts, err := jwtAuth.Encode(claims)
	if err != nil {
		return ts, err
	}
	return ts, nil
}

// DomainFromClaims reads the domain claim. Empty domains are rejected.
func DomainFromClaims(claims map[string]interface{}) (string, bool) {
	domain, ok := claims[DomainClaim].(string)
	if !ok || domain == "" {
		return "", false
	}
	return domain, true
}
