// Package store persiste las cuentas sociales vinculadas tras un login
// OAuth exitoso, junto con los tokens emitidos por el provider.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indica que la cuenta social no existe.
var ErrNotFound = errors.New("social account not found")

// SocialAccount es una vinculación (provider, provider_user_id) → usuario
// local. AccessToken y RefreshToken se guardan cifrados cuando el cifrado
// está habilitado; este paquete los trata como strings opacos.
type SocialAccount struct {
	ID             string
	UserID         *string
	Provider       string
	ProviderUserID string

	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time

	// Perfil denormalizado del último login.
	Name     string
	Email    string
	Avatar   *string
	Nickname *string

	// Metadata payload crudo del provider (JSON).
	Metadata map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TokenExpired reporta si el access token venció. Sin expiry conocido se
// asume vigente.
func (a *SocialAccount) TokenExpired(now time.Time) bool {
	return a.ExpiresAt != nil && !now.Before(*a.ExpiresAt)
}

// HasRefreshToken reporta si hay refresh token disponible.
func (a *SocialAccount) HasRefreshToken() bool {
	return a.RefreshToken != ""
}

// UpsertInput son los campos que un login actualiza en cada pasada.
type UpsertInput struct {
	Provider       string
	ProviderUserID string
	AccessToken    string
	RefreshToken   string
	ExpiresAt      *time.Time
	Name           string
	Email          string
	Avatar         *string
	Nickname       *string
	Metadata       map[string]any
}

// Store es el contrato de persistencia de cuentas sociales.
type Store interface {
	// Upsert crea o actualiza la cuenta identificada por
	// (provider, provider_user_id) y devuelve la fila resultante.
	Upsert(ctx context.Context, in UpsertInput) (*SocialAccount, error)

	// FindByProvider busca por (provider, provider_user_id).
	FindByProvider(ctx context.Context, provider, providerUserID string) (*SocialAccount, error)

	// FindByUserID lista las cuentas vinculadas a un usuario local.
	FindByUserID(ctx context.Context, userID string) ([]SocialAccount, error)

	// Link asocia una cuenta existente a un usuario local.
	Link(ctx context.Context, accountID, userID string) error

	// UpdateTokens reemplaza los tokens tras un refresh.
	UpdateTokens(ctx context.Context, accountID, accessToken, refreshToken string, expiresAt *time.Time) error

	// Close libera recursos subyacentes.
	Close()
}
