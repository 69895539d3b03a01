package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errClaimSet = errors.New("invalid claim set")

// Codec signs claim sets into compact JWTs and verifies them back.
// It enforces signature, algorithm, issuer and expiry and never touches
// external state.
type Codec struct {
	method jwt.SigningMethod
	secret []byte
	issuer string
	now    func() time.Time
}

// NewCodec supports the HMAC family (HS256, HS384, HS512).
func NewCodec(secret []byte, algorithm, issuer string, now func() time.Time) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("auth: secret key is required")
	}
	if issuer == "" {
		return nil, errors.New("auth: issuer is required")
	}
	m, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("auth: unsupported signing algorithm %q", algorithm)
	}
	if now == nil {
		now = time.Now
	}
	return &Codec{method: m, secret: secret, issuer: issuer, now: now}, nil
}

// Encode signs claims. An empty issuer is filled with the configured one.
func (c *Codec) Encode(claims Claims) (string, error) {
	if claims.Issuer == "" {
		claims.Issuer = c.issuer
	}
	t := jwt.NewWithClaims(c.method, claims)
	s, err := t.SignedString(c.secret)
	if err != nil {
		return "", newError(KindInternal, "Token signing failed", err)
	}
	return s, nil
}

// Decode verifies tokenString and returns its claims.
// Fails with KindTokenExpired only when expiry is the sole failed check,
// and with KindTokenInvalid for anything else.
func (c *Codec) Decode(tokenString string) (Claims, error) {
	if tokenString == "" {
		return Claims{}, tokenInvalid("Token is empty", nil)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if onlyExpired(err) {
			return Claims{}, tokenExpired()
		}
		return Claims{}, tokenInvalid("Invalid token: "+reason(err), err)
	}
	return claims, nil
}

func onlyExpired(err error) bool {
	if !errors.Is(err, jwt.ErrTokenExpired) {
		return false
	}
	for _, other := range []error{
		jwt.ErrTokenInvalidIssuer,
		jwt.ErrTokenNotValidYet,
		jwt.ErrTokenUsedBeforeIssued,
		jwt.ErrTokenRequiredClaimMissing,
		jwt.ErrTokenInvalidAudience,
		jwt.ErrTokenInvalidSubject,
		jwt.ErrInvalidType,
		errClaimSet,
	} {
		if errors.Is(err, other) {
			return false
		}
	}
	return true
}

// reason maps a parser error to a short client-safe phrase.
func reason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed token"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "signature verification failed"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "issuer mismatch"
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "missing required claim"
	case errors.Is(err, jwt.ErrTokenUsedBeforeIssued), errors.Is(err, jwt.ErrTokenNotValidYet):
		return "token not valid yet"
	case errors.Is(err, errClaimSet):
		return "invalid claims"
	default:
		return "verification failed"
	}
}
