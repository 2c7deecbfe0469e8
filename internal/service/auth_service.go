package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"medreps/internal/config"
	"medreps/internal/directory"
	"medreps/internal/ids"
	"medreps/internal/metrics"
	"medreps/internal/models"
	"medreps/internal/repository"
	"medreps/internal/security"
)

const invalidCodeMessage = "Invalid access code"

type AuthService struct {
	dir      *directory.Directory
	sessions repository.Sessions
	cfg      config.SecurityConfig
	log      zerolog.Logger
}

func NewAuthService(dir *directory.Directory, sessions repository.Sessions, cfg config.SecurityConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		dir:      dir,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

// AuthResult reports the outcome of a login. An unknown code is a value, not an error.
type AuthResult struct {
	Success     bool
	Role        models.Role
	UserCode    string
	UserName    string
	Areas       []string
	Message     string
	AccessToken string
	ExpiresAt   time.Time
	SessionID   string
}

func (s *AuthService) Authenticate(ctx context.Context, code string) (AuthResult, error) {
	code = strings.TrimSpace(code)

	identity, ok := s.dir.Lookup(code)
	if !ok {
		metrics.Logins.WithLabelValues("rejected", "").Inc()
		s.log.Warn().Msg("login rejected: unknown access code")
		return AuthResult{Success: false, Message: invalidCodeMessage}, nil
	}

	session := models.Session{
		ID:        ids.New(),
		UserCode:  identity.Code,
		UserName:  identity.Name,
		Role:      identity.Role,
		LoginTime: time.Now().UTC(),
		IsActive:  true,
	}

	token, expires, err := security.GenerateAccessToken(
		s.cfg.JWTAccessSecret,
		identity.Code,
		string(identity.Role),
		session.ID,
		s.cfg.JWTAccessTTL,
	)
	if err != nil {
		return AuthResult{}, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return AuthResult{}, fmt.Errorf("record session: %w", err)
	}

	metrics.Logins.WithLabelValues("accepted", string(identity.Role)).Inc()
	s.log.Info().
		Str("user_code", identity.Code).
		Str("role", string(identity.Role)).
		Str("session_id", session.ID).
		Msg("login accepted")

	result := AuthResult{
		Success:     true,
		Role:        identity.Role,
		UserCode:    identity.Code,
		UserName:    identity.Name,
		AccessToken: token,
		ExpiresAt:   expires,
		SessionID:   session.ID,
	}
	if !identity.IsManager() {
		result.Areas = identity.Areas
	}
	return result, nil
}

// ActiveSession is a stored session enriched with the directory's areas.
type ActiveSession struct {
	models.Session
	Areas []string `json:"areas"`
}

// ActiveSession returns the first active session for code, or nil when there is none.
func (s *AuthService) ActiveSession(ctx context.Context, code string) (*ActiveSession, error) {
	session, err := s.sessions.FirstActive(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ActiveSession{Session: session, Areas: s.dir.Areas(code)}, nil
}

// Resolve turns a bearer token into the caller's identity. The token's
// session must still be active and its code still present in the directory.
func (s *AuthService) Resolve(ctx context.Context, token string) (models.Identity, models.Session, error) {
	claims, err := security.ParseAccessToken(token, s.cfg.JWTAccessSecret)
	if err != nil {
		return models.Identity{}, models.Session{}, ErrUnauthenticated
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.Identity{}, models.Session{}, ErrUnauthenticated
		}
		return models.Identity{}, models.Session{}, err
	}
	if !session.IsActive || session.UserCode != claims.Code {
		return models.Identity{}, models.Session{}, ErrUnauthenticated
	}

	identity, ok := s.dir.Lookup(claims.Code)
	if !ok {
		return models.Identity{}, models.Session{}, ErrUnauthenticated
	}
	return identity, session, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Deactivate(ctx, sessionID); err != nil {
		return err
	}
	s.log.Info().Str("session_id", sessionID).Msg("session deactivated")
	return nil
}

func (s *AuthService) Representatives() []directory.Representative {
	return s.dir.Representatives()
}
