package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ramanasai/shoppingify/internal/model"
)

// ErrEmailTaken is returned by CreateUser for an email already registered.
var ErrEmailTaken = errors.New("email already registered")

func CreateUser(ctx context.Context, q Querier, name, email string) (model.User, error) {
	u := model.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		CreatedAt: time.Now().UTC(),
	}
	if u.Email == "" {
		return model.User{}, fmt.Errorf("email is required")
	}
	_, err := q.ExecContext(ctx, `INSERT INTO users(id, name, email, created_at) VALUES(?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, formatTS(u.CreatedAt))
	if isUniqueViolation(err) {
		return model.User{}, ErrEmailTaken
	}
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func UserByEmail(ctx context.Context, q Querier, email string) (model.User, error) {
	return scanUser(q.QueryRowContext(ctx,
		`SELECT id, name, email, created_at FROM users WHERE email = ?`,
		strings.ToLower(strings.TrimSpace(email))))
}

func UserByID(ctx context.Context, q Querier, id string) (model.User, error) {
	return scanUser(q.QueryRowContext(ctx, `SELECT id, name, email, created_at FROM users WHERE id = ?`, id))
}

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	var created string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	u.CreatedAt = parseTS(created)
	return u, nil
}

// CreateSession stores a session for userID and returns its id.
func CreateSession(ctx context.Context, q Querier, userID string, expires time.Time) (string, error) {
	id := uuid.NewString()
	_, err := q.ExecContext(ctx, `INSERT INTO sessions(id, user_id, expires_at, created_at) VALUES(?, ?, ?, ?)`,
		id, userID, formatTS(expires), formatTS(time.Now()))
	if err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}
	return id, nil
}

// SessionUser resolves a live session to its user id.
func SessionUser(ctx context.Context, q Querier, sessionID string, now time.Time) (string, error) {
	var userID, expires string
	err := q.QueryRowContext(ctx, `SELECT user_id, expires_at FROM sessions WHERE id = ?`, sessionID).Scan(&userID, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	if !parseTS(expires).After(now) {
		return "", ErrNotFound
	}
	return userID, nil
}

func DeleteSession(ctx context.Context, q Querier, sessionID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, sessionID)
	return err
}

// PurgeExpiredSessions drops sessions that expired before now.
func PurgeExpiredSessions(ctx context.Context, q Querier, now time.Time) (int64, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, formatTS(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
