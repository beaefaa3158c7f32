package authenticator

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	auth0validator "github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/bytedance/sonic"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/dmorell/atelier/internal/config"
)

const tokenLifetime = 24 * time.Hour

// UserClaims is the identity resolved from a bearer token. The role is
// intentionally absent: roles live in the profile table so that an admin
// can change them without reissuing tokens.
type UserClaims struct {
	UserID string
	Email  string
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator issues and verifies session tokens. Locally issued HS256
// tokens are always accepted; when an Auth0 domain is configured, RS256
// tokens from that tenant are accepted as well.
type Authenticator struct {
	*oidc.Provider
	oauth2.Config

	jwtSecret    []byte
	stateSecret  string
	issuer       string
	jwksProvider *jwks.CachingProvider
	audience     string
	auth0Enabled bool
}

func New(conf *config.Config) (*Authenticator, error) {
	if conf.JWT_SECRET == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	a := &Authenticator{
		jwtSecret: []byte(conf.JWT_SECRET),
		audience:  "atelier-api",
	}

	if conf.AUTH0_DOMAIN == "" {
		return a, nil
	}

	issuer := "https://" + conf.AUTH0_DOMAIN + "/"

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		return nil, err
	}

	issuerURL, err := url.Parse(issuer)
	if err != nil {
		return nil, err
	}

	a.Provider = provider
	a.Config = oauth2.Config{
		ClientID:     conf.AUTH0_CLIENT_ID,
		ClientSecret: conf.AUTH0_CLIENT_SECRET,
		RedirectURL:  conf.AUTH0_CALLBACK_URL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	a.stateSecret = conf.STATE_SECRET
	a.issuer = issuer
	a.jwksProvider = jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	a.auth0Enabled = true

	return a, nil
}

func (a *Authenticator) Auth0Enabled() bool {
	return a.auth0Enabled
}

func (a *Authenticator) Audience() string {
	return a.audience
}

// GenerateToken mints a session token for an authenticated account.
func (a *Authenticator) GenerateToken(userID, email string) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "atelier",
			Subject:   userID,
			Audience:  jwt.ClaimStrings{a.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	})

	return token.SignedString(a.jwtSecret)
}

// VerifyAccessToken resolves a bearer token back to the user it was
// issued for. Locally issued tokens are tried first, then the Auth0
// tenant when one is configured.
func (a *Authenticator) VerifyAccessToken(ctx context.Context, token string) (*UserClaims, error) {
	var claims sessionClaims

	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	}, jwt.WithExpirationRequired())

	if err == nil && parsed.Valid {
		return &UserClaims{UserID: claims.Subject, Email: claims.Email}, nil
	}

	if a.auth0Enabled {
		return a.verifyAuth0Token(ctx, token)
	}

	return nil, err
}

func (a *Authenticator) verifyAuth0Token(ctx context.Context, token string) (*UserClaims, error) {
	jwtValidator, err := auth0validator.New(a.jwksProvider.KeyFunc, auth0validator.RS256, a.issuer, []string{a.audience})
	if err != nil {
		return nil, err
	}

	payload, err := jwtValidator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	validated, ok := payload.(*auth0validator.ValidatedClaims)
	if !ok {
		return nil, errors.New("unexpected token payload")
	}

	return &UserClaims{UserID: validated.RegisteredClaims.Subject}, nil
}

// VerifyIDToken verifies that an *oauth2.Token is a valid *oidc.IDToken.
func (a *Authenticator) VerifyIDToken(ctx context.Context, token *oauth2.Token) (*oidc.IDToken, error) {
	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token field in oauth2 token")
	}

	oidcConfig := &oidc.Config{
		ClientID: a.ClientID,
	}

	return a.Verifier(oidcConfig).Verify(ctx, rawIDToken)
}

type OAuthState struct {
	CSRF      string `json:"csrf"`
	Redirect  string `json:"redirect"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

func (a *Authenticator) GetSignedState(state OAuthState) (string, error) {
	payload, err := sonic.Marshal(state)
	if err != nil {
		return "", err
	}

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	sig := mac.Sum(nil)

	combined := append(payload, sig...)
	return base64.StdEncoding.EncodeToString(combined), nil
}

func (a *Authenticator) VerifySignedState(encodedState string) (*OAuthState, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedState)
	if err != nil {
		return nil, errors.New("invalid base64")
	}

	if len(raw) < sha256.Size {
		return nil, errors.New("state too short")
	}

	payload := raw[:len(raw)-sha256.Size]
	sig := raw[len(raw)-sha256.Size:]

	mac := hmac.New(sha256.New, []byte(a.stateSecret))
	mac.Write(payload)
	expectedSig := mac.Sum(nil)
	if !hmac.Equal(sig, expectedSig) {
		return nil, errors.New("invalid state signature")
	}

	var state OAuthState
	if err := sonic.Unmarshal(payload, &state); err != nil {
		return nil, errors.New("invalid state payload")
	}

	if time.Now().Unix() > state.ExpiresAt {
		return nil, errors.New("state expired")
	}

	return &state, nil
}
