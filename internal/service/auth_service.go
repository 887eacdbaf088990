package service

import (
	"context"
	"errors"

	"rag-qa-be/internal/dto"
	"rag-qa-be/internal/entity"
	"rag-qa-be/internal/pkg/logger"
	"rag-qa-be/internal/pkg/token"
	"rag-qa-be/internal/repository/contract"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidToken covers malformed, forged, expired and superseded
	// tokens alike. Callers must not be able to tell these apart.
	ErrInvalidToken = errors.New("invalid or expired token")
)

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, username string) error
	// Authenticate validates a raw bearer token and returns the account it
	// belongs to. Rejection reasons are collapsed into ErrInvalidToken.
	Authenticate(ctx context.Context, rawToken string) (string, error)
}

type authService struct {
	accounts contract.AccountRepository
	sessions contract.SessionRepository
	codec    *token.JWTCodec
	logger   logger.ILogger
}

func NewAuthService(accounts contract.AccountRepository, sessions contract.SessionRepository, codec *token.JWTCodec, log logger.ILogger) IAuthService {
	return &authService{
		accounts: accounts,
		sessions: sessions,
		codec:    codec,
		logger:   log,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	account, found := s.accounts.FindByUsername(req.Username)
	if !found {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	issued, err := s.codec.Issue(account.Username)
	if err != nil {
		return nil, err
	}

	// Save replaces any existing session for this account, so a login from a
	// new device invalidates the old device's token.
	session := &entity.Session{
		Username:   account.Username,
		Token:      issued.Token,
		DeviceInfo: req.DeviceInfo,
		IssuedAt:   issued.IssuedAt,
		ExpiresAt:  issued.ExpiresAt,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("auth", "user logged in", map[string]interface{}{
		"username": account.Username,
		"device":   req.DeviceInfo,
	})

	return &dto.LoginResponse{
		AccessToken: issued.Token,
		TokenType:   "bearer",
		Username:    account.Username,
		ExpiresIn:   int64(s.codec.TTL().Seconds()),
	}, nil
}

func (s *authService) Logout(ctx context.Context, username string) error {
	// Revoking an absent session is a no-op, which makes logout idempotent.
	if err := s.sessions.Delete(ctx, username); err != nil {
		return err
	}
	s.logger.Info("auth", "user logged out", map[string]interface{}{
		"username": username,
	})
	return nil
}

func (s *authService) Authenticate(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", ErrInvalidToken
	}

	username, err := s.codec.Validate(rawToken)
	if err != nil {
		s.logger.Debug("auth", "token rejected", map[string]interface{}{
			"reason": err.Error(),
		})
		return "", ErrInvalidToken
	}

	// A structurally valid token is only current if it matches the registry
	// entry exactly; a superseded token fails here.
	session, found, err := s.sessions.Get(ctx, username)
	if err != nil {
		return "", err
	}
	if !found || session.Token != rawToken {
		return "", ErrInvalidToken
	}

	return username, nil
}
