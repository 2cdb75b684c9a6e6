// Docgate - Document Access Gateway for the Talentfolio Platform
// Copyright 2026 Talentfolio
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/talentfolio/docgate

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Identity is the verified content of a bearer token, before the role
// has been resolved from the user record.
type Identity struct {
	UID           string
	Email         string
	EmailVerified bool
}

// TokenVerifier validates a raw bearer token and returns the identity
// it asserts.
type TokenVerifier interface {
	Verify(ctx context.Context, tokenString string) (*Identity, error)
}

// Claims are the JWT claims docgate issues and accepts.
type Claims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// JWTManager creates and validates HS256 bearer tokens.
type JWTManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewJWTManager creates a JWT manager. The secret must be non-empty;
// issuer is optional and, when set, enforced on validation.
func NewJWTManager(secret, issuer string, ttl time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required but was empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

// GenerateToken creates a signed token for the given user.
func (m *JWTManager) GenerateToken(uid, email string, emailVerified bool) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:         email,
		EmailVerified: emailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signedToken, nil
}

// ValidateToken parses and verifies a token string.
// Rejects tokens signed with anything but HMAC to prevent algorithm
// confusion attacks.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{"HS256"})}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	return claims, nil
}

// Verify implements TokenVerifier.
func (m *JWTManager) Verify(_ context.Context, tokenString string) (*Identity, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, ErrInvalidCredentials
	}
	return &Identity{
		UID:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}
