package identity

import (
	"context"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

type (
	// Verifier exchanges a bearer credential for the caller's Identity.
	Verifier interface {
		Verify(ctx context.Context, credential string) (Identity, error)
	}

	// Claims represents the claims of an identity provider access token.
	Claims struct {
		jwt.StandardClaims
		Email string `json:"email,omitempty"`
	}

	// JWTVerifier verifies HS256 access tokens issued by the identity provider.
	JWTVerifier struct {
		secret   []byte
		audience string
		parser   *jwt.Parser
	}
)

var _ Verifier = (*JWTVerifier)(nil)

func NewJWTVerifier(secret, audience string) *JWTVerifier {
	return &JWTVerifier{
		secret:   []byte(secret),
		audience: audience,
		parser:   &jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}},
	}
}

func (v *JWTVerifier) Verify(_ context.Context, credential string) (Identity, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" || len(v.secret) == 0 {
		return Identity{}, ErrUnauthenticated
	}

	claims := new(Claims)
	token, err := v.parser.ParseWithClaims(credential, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return Identity{}, errors.Wrap(ErrUnauthenticated, err.Error())
	}
	if !token.Valid {
		return Identity{}, ErrUnauthenticated
	}
	if v.audience != "" && !claims.VerifyAudience(v.audience, true) {
		return Identity{}, errors.Wrap(ErrUnauthenticated, "invalid audience")
	}
	if claims.Subject == "" {
		return Identity{}, errors.Wrap(ErrUnauthenticated, "missing subject")
	}
	return Identity{Subject: claims.Subject, Email: claims.Email}, nil
}
