package jwtinfra

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shijra-api/internal/config"
)

// Issuer is stamped on issued tokens and required on verified ones.
const Issuer = "shijra-api"

const clockSkew = 30 * time.Second

var (
	ErrNoSigningKey  = errors.New("no signing key configured")
	ErrInvalidClaims = errors.New("token carries no user")
)

// Claims identifies the member behind a request and, optionally, the tree
// they are working in.
type Claims struct {
	UserID string `json:"user_id"`
	TreeID string `json:"tree_id,omitempty"`
	jwt.RegisteredClaims
}

// Provider verifies RS256 member tokens. It signs only when a private key is loaded.
type Provider struct {
	signKey   *rsa.PrivateKey
	verifyKey *rsa.PublicKey
	ttl       time.Duration
	parser    *jwt.Parser
}

// NewProvider loads the public key from cfg. The private key is optional; the
// API only verifies tokens minted by the auth service.
func NewProvider(cfg *config.Config) (*Provider, error) {
	pem, err := os.ReadFile(cfg.JWTPublicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read public key: %w", err)
	}
	pub, err := jwt.ParseRSAPublicKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	var priv *rsa.PrivateKey
	if pem, err := os.ReadFile(cfg.JWTPrivateKeyPath); err == nil {
		if priv, err = jwt.ParseRSAPrivateKeyFromPEM(pem); err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
	}
	return NewProviderFromKeys(priv, pub, cfg.JWTExpiry), nil
}

// NewProviderFromKeys builds a Provider from parsed keys. priv may be nil.
func NewProviderFromKeys(priv *rsa.PrivateKey, pub *rsa.PublicKey, ttl time.Duration) *Provider {
	return &Provider{
		signKey:   priv,
		verifyKey: pub,
		ttl:       ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(clockSkew),
		),
	}
}

// CanSign reports whether a private key is loaded.
func (p *Provider) CanSign() bool { return p.signKey != nil }

// Sign issues a token for userID, scoped to treeID when it is not empty.
func (p *Provider) Sign(userID, treeID string) (string, error) {
	if p.signKey == nil {
		return "", ErrNoSigningKey
	}
	now := time.Now()
	claims := Claims{
		UserID: userID,
		TreeID: treeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.signKey)
}

func (p *Provider) Verify(raw string) (*Claims, error) {
	var claims Claims
	if _, err := p.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return p.verifyKey, nil
	}); err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, ErrInvalidClaims
	}
	return &claims, nil
}
