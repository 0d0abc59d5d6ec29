// Package auth issues and resolves account sessions for the HTTP API and
// keeps the CLI's saved credentials.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/model"
)

// ErrUnauthenticated is returned when a token is missing, invalid or expired,
// or when logging in with an unknown email.
var ErrUnauthenticated = errors.New("unauthenticated")

// Session is the authenticated identity attached to a request.
type Session struct {
	ID     string `json:"-"`
	UserID string `json:"userId"`
}

type Provider struct {
	db     *sql.DB
	sealer *Sealer
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

func NewProvider(dbh *sql.DB, sealer *Sealer, ttl time.Duration, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Provider{db: dbh, sealer: sealer, ttl: ttl, log: log, now: time.Now}
}

// Signup registers a user, gives them the default catalog and opens a session.
func (p *Provider) Signup(ctx context.Context, name, email string) (string, model.User, error) {
	if strings.TrimSpace(email) == "" {
		return "", model.User{}, fmt.Errorf("email is required")
	}
	u, err := db.CreateUser(ctx, p.db, name, email)
	if err != nil {
		return "", model.User{}, err
	}
	if _, err := db.SeedDefaults(ctx, p.db, u.ID); err != nil {
		p.log.Warn("seeding default catalog failed", zap.String("user_id", u.ID), zap.Error(err))
	}
	p.log.Info("user signed up", zap.String("user_id", u.ID))

	token, err := p.open(ctx, u.ID)
	return token, u, err
}

// Login opens a session for an existing email.
func (p *Provider) Login(ctx context.Context, email string) (string, model.User, error) {
	u, err := db.UserByEmail(ctx, p.db, email)
	if errors.Is(err, db.ErrNotFound) {
		return "", model.User{}, ErrUnauthenticated
	}
	if err != nil {
		return "", model.User{}, err
	}
	token, err := p.open(ctx, u.ID)
	return token, u, err
}

func (p *Provider) open(ctx context.Context, userID string) (string, error) {
	sid, err := db.CreateSession(ctx, p.db, userID, p.now().Add(p.ttl))
	if err != nil {
		return "", err
	}
	return p.sealer.Seal(sid)
}

// Resolve returns the live session behind token.
func (p *Provider) Resolve(ctx context.Context, token string) (*Session, error) {
	token = StripBearer(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}
	sid, err := p.sealer.Open(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	uid, err := db.SessionUser(ctx, p.db, sid, p.now())
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return &Session{ID: sid, UserID: uid}, nil
}

// Logout ends the session behind token. Unknown tokens are ignored.
func (p *Provider) Logout(ctx context.Context, token string) error {
	s, err := p.Resolve(ctx, token)
	if errors.Is(err, ErrUnauthenticated) {
		return nil
	}
	if err != nil {
		return err
	}
	return db.DeleteSession(ctx, p.db, s.ID)
}

// User loads the account for a session.
func (p *Provider) User(ctx context.Context, s *Session) (model.User, error) {
	if s == nil {
		return model.User{}, ErrUnauthenticated
	}
	return db.UserByID(ctx, p.db, s.UserID)
}

// PurgeExpired drops expired sessions; the server runs it periodically.
func (p *Provider) PurgeExpired(ctx context.Context) {
	n, err := db.PurgeExpiredSessions(ctx, p.db, p.now())
	if err != nil {
		p.log.Warn("purging sessions failed", zap.Error(err))
		return
	}
	if n > 0 {
		p.log.Debug("expired sessions purged", zap.Int64("count", n))
	}
}

// LocalUser finds or creates the account used by the local mode.
func LocalUser(ctx context.Context, dbh *sql.DB, email string) (model.User, error) {
	if strings.TrimSpace(email) == "" {
		email = "me@localhost"
	}
	u, err := db.UserByEmail(ctx, dbh, email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return model.User{}, err
	}
	u, err = db.CreateUser(ctx, dbh, "", email)
	if err != nil {
		return model.User{}, err
	}
	if _, err := db.SeedDefaults(ctx, dbh, u.ID); err != nil {
		return model.User{}, fmt.Errorf("seed defaults: %w", err)
	}
	return u, nil
}

func StripBearer(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
