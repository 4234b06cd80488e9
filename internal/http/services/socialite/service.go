// Package socialite contains the HTTP-facing login service. It orchestrates
// the provider flows, persists linked social accounts and keeps their tokens
// fresh.
package socialite

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/dropDatabas3/socialite/internal/metrics"
	"github.com/dropDatabas3/socialite/internal/observability/logger"
	"github.com/dropDatabas3/socialite/internal/security/secretbox"
	"github.com/dropDatabas3/socialite/internal/socialite"
	"github.com/dropDatabas3/socialite/internal/store"
)

// Manager resolves providers by name.
type Manager interface {
	Driver(name string) (socialite.Provider, error)
	Names() []string
}

// Deps contains dependencies for the login service.
type Deps struct {
	Manager Manager
	Store   store.Store // optional; nil disables persistence

	// EncryptTokens stores provider tokens through secretbox.
	EncryptTokens bool

	// AutoRefresh refreshes expired tokens on read when a refresh
	// token is available.
	AutoRefresh bool

	Now func() time.Time
}

// Service implements the login orchestration.
type Service struct {
	manager       Manager
	store         store.Store
	encryptTokens bool
	autoRefresh   bool
	now           func() time.Time
}

// NewService creates the login service.
func NewService(d Deps) *Service {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		manager:       d.Manager,
		store:         d.Store,
		encryptTokens: d.EncryptTokens,
		autoRefresh:   d.AutoRefresh,
		now:           now,
	}
}

// Names lists the resolvable provider names.
func (s *Service) Names() []string {
	return s.manager.Names()
}

// RedirectURL resolves the provider and mints its authorization URL.
func (s *Service) RedirectURL(ctx context.Context, provider string, sess socialite.Session) (string, error) {
	p, err := s.manager.Driver(provider)
	if err != nil {
		return "", err
	}
	return p.RedirectURL(ctx, sess)
}

// CallbackResult is the outcome of a completed callback.
type CallbackResult struct {
	User    *socialite.User
	Account *store.SocialAccount // nil when persistence is disabled
}

// Callback runs the provider callback flow and persists the linked account.
func (s *Service) Callback(ctx context.Context, provider string, sess socialite.Session, query url.Values) (*CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("socialite.callback"))

	p, err := s.manager.Driver(provider)
	if err != nil {
		return nil, err
	}

	token, err := p.AccessToken(ctx, sess, query)
	if err != nil {
		return nil, err
	}
	user, err := p.UserFromToken(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	result := &CallbackResult{User: user}
	if s.store == nil {
		return result, nil
	}

	account, err := s.persist(ctx, p.Name(), user, token)
	if err != nil {
		// Persistence failure should not lose the login itself.
		log.Error("social account persist failed",
			logger.Provider(p.Name()),
			logger.Err(err),
		)
		return result, nil
	}
	result.Account = account

	log.Info("social account linked",
		logger.Provider(p.Name()),
		logger.ProviderUserID(user.ID),
	)
	return result, nil
}

func (s *Service) persist(ctx context.Context, provider string, user *socialite.User, token *socialite.TokenBundle) (*store.SocialAccount, error) {
	access, refresh := token.AccessToken, token.RefreshToken
	if s.encryptTokens {
		var err error
		if access, err = secretbox.Encrypt(access); err != nil {
			return nil, err
		}
		if refresh != "" {
			if refresh, err = secretbox.Encrypt(refresh); err != nil {
				return nil, err
			}
		}
	}

	return s.store.Upsert(ctx, store.UpsertInput{
		Provider:       provider,
		ProviderUserID: user.ID,
		AccessToken:    access,
		RefreshToken:   refresh,
		ExpiresAt:      token.ExpiresAt(s.now()),
		Name:           user.Name,
		Email:          user.Email,
		Avatar:         user.Avatar,
		Nickname:       user.Nickname,
		Metadata:       user.Attributes,
	})
}

// ErrNoRefreshToken indicates the account has no refresh token to renew with.
var ErrNoRefreshToken = errors.New("social account has no refresh token")

// EnsureFreshToken returns a usable plaintext access token for the account,
// refreshing through the provider when the stored token is expired.
func (s *Service) EnsureFreshToken(ctx context.Context, account *store.SocialAccount) (string, error) {
	access := account.AccessToken
	if s.encryptTokens {
		var err error
		if access, err = secretbox.Decrypt(access); err != nil {
			return "", err
		}
	}
	if !account.TokenExpired(s.now()) {
		return access, nil
	}
	if !s.autoRefresh {
		return access, nil
	}
	if !account.HasRefreshToken() {
		return "", ErrNoRefreshToken
	}

	p, err := s.manager.Driver(account.Provider)
	if err != nil {
		return "", err
	}
	rp, ok := p.(socialite.RefreshableProvider)
	if !ok {
		return "", ErrNoRefreshToken
	}

	refresh := account.RefreshToken
	if s.encryptTokens {
		if refresh, err = secretbox.Decrypt(refresh); err != nil {
			return "", err
		}
	}

	bundle, err := rp.RefreshToken(ctx, refresh)
	if err != nil {
		metrics.TokenRefreshes.WithLabelValues(account.Provider, "error").Inc()
		return "", err
	}
	metrics.TokenRefreshes.WithLabelValues(account.Provider, "ok").Inc()

	newAccess, newRefresh := bundle.AccessToken, bundle.RefreshToken
	if s.encryptTokens {
		if newAccess, err = secretbox.Encrypt(newAccess); err != nil {
			return "", err
		}
		if newRefresh != "" {
			if newRefresh, err = secretbox.Encrypt(newRefresh); err != nil {
				return "", err
			}
		}
	}
	expiresAt := bundle.ExpiresAt(s.now())
	if err := s.store.UpdateTokens(ctx, account.ID, newAccess, newRefresh, expiresAt); err != nil {
		logger.From(ctx).Warn("token refresh persisted partially",
			logger.Provider(account.Provider),
			logger.Err(err),
		)
	}

	account.AccessToken = newAccess
	if newRefresh != "" {
		account.RefreshToken = newRefresh
	}
	account.ExpiresAt = expiresAt

	return bundle.AccessToken, nil
}
