// Package token
package token

import (
	"errors"
	"fmt"
	"time"

	"casetrack/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carries the identity claims embedded in a session token.
type Claims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID   `json:"user_id"`
	Email  string      `json:"email_id"`
	Role   domain.Role `json:"role"`
}

type Service struct {
	secret           []byte
	expiry           time.Duration
	refreshThreshold time.Duration
}

func NewService(secret string, expiry, refreshThreshold time.Duration) domain.TokenService {
	return &Service{
		secret:           []byte(secret),
		expiry:           expiry,
		refreshThreshold: refreshThreshold,
	}
}

func (s *Service) Issue(user *domain.User) (string, error) {
	return s.sign(user.ID, user.Email, user.Role)
}

func (s *Service) Verify(raw string) (*domain.SessionClaims, error) {
	claims := &Claims{}

	// Expiry is mandatory: a signed token without exp would otherwise slip
	// past validation and leave ExpiresAt nil below.
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrInvalidToken
	}

	if !token.Valid {
		return nil, domain.ErrInvalidToken
	}

	return &domain.SessionClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *Service) Refresh(claims *domain.SessionClaims) (string, bool, error) {
	if time.Until(claims.ExpiresAt) >= s.refreshThreshold {
		return "", false, nil
	}

	token, err := s.sign(claims.UserID, claims.Email, claims.Role)
	if err != nil {
		return "", false, err
	}

	return token, true, nil
}

func (s *Service) sign(userID uuid.UUID, email string, role domain.Role) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
		UserID: userID,
		Email:  email,
		Role:   role,
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
