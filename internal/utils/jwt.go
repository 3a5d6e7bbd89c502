package utils // package utils provides helper functions for token creation and hashing

import (
    "errors" // sentinel errors for token verification outcomes
    "time"   // time utilities for computing expirations

    "github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// ErrTokenExpired is returned by VerifyAccessToken when the token's signature
// is valid but its expiry has passed.  Callers translate this into HTTP 401.
var ErrTokenExpired = errors.New("token expired")

// ErrTokenInvalid is returned for every other verification failure: bad
// signature, malformed structure, unexpected signing algorithm or missing
// subject claim.  Callers translate this into HTTP 403.
var ErrTokenInvalid = errors.New("token invalid")

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the serialized JWT string.  Exp stores the UTC
// expiration time.  Access tokens are presented in the Authorization header
// when calling protected endpoints.
type AccessToken struct {
    Token string    // the serialized JWT string
    Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user.  It takes the
// signing secret, the user's public identifier and a TTL in minutes, and
// returns an AccessToken holding the signed string and its expiration time.
// The JWT carries the standard claims sub (the user id), exp and iat.
func NewAccessToken(secret, userID string, ttlMin int) (AccessToken, error) {
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub": userID,
        "exp": exp.Unix(),
        "iat": now.Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    signed, err := t.SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}

// VerifyAccessToken validates a serialized access token against the signing
// secret and returns the user id carried in the sub claim.  Verification is
// purely cryptographic and stateless; it never consults the database.  An
// expired token yields ErrTokenExpired, every other failure ErrTokenInvalid.
func VerifyAccessToken(secret, raw string) (string, error) {
    tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
        // Reject tokens signed with anything but the HMAC family.
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, ErrTokenInvalid
        }
        return []byte(secret), nil
    })
    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return "", ErrTokenExpired
        }
        return "", ErrTokenInvalid
    }
    if !tok.Valid {
        return "", ErrTokenInvalid
    }
    claims, ok := tok.Claims.(jwt.MapClaims)
    if !ok {
        return "", ErrTokenInvalid
    }
    sub, err := claims.GetSubject()
    if err != nil || sub == "" {
        return "", ErrTokenInvalid
    }
    return sub, nil
}
