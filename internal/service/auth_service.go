package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/job-board-service/internal/auth"
	"github.com/spec-kit/job-board-service/internal/config"
	"github.com/spec-kit/job-board-service/internal/domain"
	"github.com/spec-kit/job-board-service/internal/repository"
	apperrors "github.com/spec-kit/job-board-service/pkg/util"
)

// AuthService coordinates the OAuth sign-in flow and session issuance.
type AuthService struct {
	users    repository.UserRepository
	provider auth.OAuthProvider
	states   auth.StateStore
	tokenMgr *auth.TokenManager
}

// AuthDependencies encapsulates collaborator requirements for auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Provider   auth.OAuthProvider
	StateStore auth.StateStore
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:    deps.UserRepo,
		provider: deps.Provider,
		states:   deps.StateStore,
		tokenMgr: auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTLMinutes),
	}
}

// BeginLogin issues a state nonce and returns the provider consent URL.
func (s *AuthService) BeginLogin(ctx context.Context) (string, error) {
	state, err := s.states.Issue(ctx)
	if err != nil {
		return "", err
	}
	return s.provider.AuthCodeURL(state), nil
}

// CompleteLogin validates the callback, upserts the account from the
// provider profile and issues a session token. Existing accounts get
// their profile fields refreshed on every sign-in.
func (s *AuthService) CompleteLogin(ctx context.Context, state, code string) (*domain.User, string, time.Time, error) {
	if err := s.states.Validate(ctx, state); err != nil {
		if err == auth.ErrInvalidState {
			return nil, "", time.Time{}, apperrors.NewValidationError("invalid or expired state", nil)
		}
		return nil, "", time.Time{}, err
	}

	token, err := s.provider.Exchange(ctx, code)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewValidationError("code exchange failed", nil)
	}

	profile, err := s.provider.FetchProfile(ctx, token)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user, err := s.upsertUser(ctx, profile)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	sessionToken, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Name)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, sessionToken, exp, nil
}

func (s *AuthService) upsertUser(ctx context.Context, profile *auth.OAuthProfile) (*domain.User, error) {
	user, err := s.users.GetByProvider(ctx, "github", profile.ProviderID)
	if err == pgx.ErrNoRows {
		user = &domain.User{
			Name:       profile.Name,
			Email:      profile.Email,
			Provider:   "github",
			ProviderID: profile.ProviderID,
		}
		if profile.AvatarURL != "" {
			user.AvatarURL = &profile.AvatarURL
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	}
	if err != nil {
		return nil, err
	}

	user.Name = profile.Name
	user.Email = profile.Email
	if profile.AvatarURL != "" {
		user.AvatarURL = &profile.AvatarURL
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
