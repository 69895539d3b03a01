package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"session-auth/internal/config"
	"session-auth/internal/session"

	"github.com/google/uuid"
)

// Manager wires the codec, issuer, verifier, revoker and refresh flow over
// one injected session store. Safe for concurrent use.
type Manager struct {
	codec     *Codec
	issuer    *Issuer
	verifier  *Verifier
	revoker   *Revoker
	refresher *Refresher
}

type Option func(*options)

type options struct {
	log        *slog.Logger
	now        func() time.Time
	newTokenID func() string
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock overrides time.Now for issuance and verification.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithTokenIDs overrides the refresh token id generator (uuid v4).
func WithTokenIDs(gen func() string) Option {
	return func(o *options) { o.newTokenID = gen }
}

func NewManager(cfg config.AuthConfig, store session.Store, opts ...Option) (*Manager, error) {
	if store == nil {
		return nil, errors.New("auth: session store is required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("auth: token lifetimes must be > 0")
	}
	if cfg.MaxDevices < 1 {
		return nil, errors.New("auth: max devices must be >= 1")
	}

	o := options{now: time.Now, newTokenID: uuid.NewString}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.Default()
	}
	log := o.log.With("component", "auth")

	codec, err := NewCodec([]byte(cfg.SecretKey), cfg.Algorithm, cfg.Issuer, o.now)
	if err != nil {
		return nil, err
	}

	issuer := &Issuer{
		codec:      codec,
		store:      store,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		maxDevices: cfg.MaxDevices,
		policy:     cfg.DevicePolicy,
		log:        log,
		now:        o.now,
		newTokenID: o.newTokenID,
	}
	verifier := &Verifier{codec: codec, store: store, log: log}

	return &Manager{
		codec:     codec,
		issuer:    issuer,
		verifier:  verifier,
		revoker:   &Revoker{store: store, log: log},
		refresher: &Refresher{verifier: verifier, issuer: issuer, store: store, log: log},
	}, nil
}

func (m *Manager) Codec() *Codec         { return m.codec }
func (m *Manager) Issuer() *Issuer       { return m.issuer }
func (m *Manager) Verifier() *Verifier   { return m.verifier }
func (m *Manager) Revoker() *Revoker     { return m.revoker }
func (m *Manager) Refresher() *Refresher { return m.refresher }

func (m *Manager) IssueAccessToken(userID string) (string, error) {
	return m.issuer.IssueAccessToken(userID)
}

func (m *Manager) IssueRefreshToken(ctx context.Context, userID string) (string, error) {
	return m.issuer.IssueRefreshToken(ctx, userID)
}

func (m *Manager) IssueTokenPair(ctx context.Context, userID string) (TokenPair, error) {
	return m.issuer.IssueTokenPair(ctx, userID)
}

func (m *Manager) Verify(ctx context.Context, token string, requireSession bool) (Claims, error) {
	return m.verifier.Verify(ctx, token, requireSession)
}

func (m *Manager) RevokeOne(ctx context.Context, tokenID string) (bool, error) {
	return m.revoker.RevokeOne(ctx, tokenID)
}

func (m *Manager) RevokeAll(ctx context.Context, userID string) (int, error) {
	return m.revoker.RevokeAll(ctx, userID)
}

func (m *Manager) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refresher.RefreshAccessToken(ctx, refreshToken)
}
