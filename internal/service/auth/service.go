package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/skverma/milknet/internal/domain/models"
	"github.com/skverma/milknet/internal/repository/mongodb"
	"github.com/skverma/milknet/internal/repository/redisstore"
)

// ErrBadCredentials covers both an unknown email and a wrong password,
// so responses never reveal which half failed.
var ErrBadCredentials = errors.New("invalid email or password")

// AccountTypeDairy and AccountTypeDevice name the two login surfaces.
const (
	AccountTypeDairy  = "dairy"
	AccountTypeDevice = "device"
)

// TokenPair is the issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service authenticates dairies and devices and manages the refresh
// token lifecycle.
type Service struct {
	tokens  *TokenManager
	store   redisstore.TokenStore
	dairies mongodb.DairyStore
	devices mongodb.DeviceStore
	logger  *zap.Logger
}

// NewService wires an auth service instance.
func NewService(tokens *TokenManager, store redisstore.TokenStore, dairies mongodb.DairyStore, devices mongodb.DeviceStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{tokens: tokens, store: store, dairies: dairies, devices: devices, logger: logger}
}

// Login checks the email against dairies first and devices second,
// verifies the password hash and issues a token pair. The refresh
// token is registered in the store for later verification.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, models.Identity, error) {
	identity, hash, err := s.lookup(ctx, email)
	if err != nil {
		return TokenPair{}, models.Identity{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return TokenPair{}, models.Identity{}, ErrBadCredentials
	}

	pair, err := s.issue(ctx, identity)
	if err != nil {
		return TokenPair{}, models.Identity{}, err
	}

	s.logger.Info("login",
		zap.String("type", identity.Type),
		zap.String("role", identity.Role),
		zap.String("id", identity.ID))
	return pair, identity, nil
}

// Refresh exchanges a registered refresh token for a new pair. The old
// token is revoked so each refresh token is single-use.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	ok, err := s.store.Exists(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if !ok {
		return TokenPair{}, ErrInvalidToken
	}

	claims, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.store.Delete(ctx, refreshToken); err != nil {
		return TokenPair{}, err
	}

	return s.issue(ctx, models.Identity{ID: claims.Subject, Role: claims.Role, Type: claims.Type})
}

// Logout revokes a refresh token.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.store.Delete(ctx, refreshToken)
}

func (s *Service) issue(ctx context.Context, identity models.Identity) (TokenPair, error) {
	access, err := s.tokens.IssueAccess(identity.ID, identity.Role, identity.Type)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.tokens.IssueRefresh(identity.ID, identity.Role, identity.Type)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.store.Save(ctx, refresh, s.tokens.RefreshTTL()); err != nil {
		return TokenPair{}, fmt.Errorf("register refresh token: %w", err)
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Service) lookup(ctx context.Context, email string) (models.Identity, string, error) {
	// registration stores emails lowercased
	email = strings.ToLower(strings.TrimSpace(email))

	dairy, err := s.dairies.FindByEmail(ctx, email)
	if err == nil {
		return models.Identity{
			ID:        dairy.DairyCode,
			Role:      dairy.Role,
			Type:      AccountTypeDairy,
			Email:     dairy.Email,
			DairyCode: dairy.DairyCode,
		}, dairy.Password, nil
	}
	if !errors.Is(err, mongodb.ErrNotFound) {
		return models.Identity{}, "", err
	}

	device, err := s.devices.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return models.Identity{}, "", ErrBadCredentials
		}
		return models.Identity{}, "", err
	}
	return models.Identity{
		ID:        device.DeviceID,
		Role:      device.Role,
		Type:      AccountTypeDevice,
		Email:     device.Email,
		DairyCode: device.DairyCode,
		DeviceID:  device.DeviceID,
	}, device.Password, nil
}
