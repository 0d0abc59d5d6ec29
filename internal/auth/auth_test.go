package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ramanasai/shoppingify/internal/db"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	dbh, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbh.Close() })

	sealer, err := NewSealer("s3cret", []byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return NewProvider(dbh, sealer, time.Hour, zaptest.NewLogger(t))
}

func TestSealerRoundTrip(t *testing.T) {
	s, err := NewSealer("pw", make([]byte, SaltSize))
	require.NoError(t, err)

	tok, err := s.Seal("session-1")
	require.NoError(t, err)
	got, err := s.Open(tok)
	require.NoError(t, err)
	assert.Equal(t, "session-1", got)

	other, err := NewSealer("different", make([]byte, SaltSize))
	require.NoError(t, err)
	_, err = other.Open(tok)
	assert.Error(t, err)

	_, err = s.Open("!!not-base64!!")
	assert.Error(t, err)

	_, err = NewSealer("", nil)
	assert.Error(t, err)
}

func TestSignupLoginLogout(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	tok, u, err := p.Signup(ctx, "Ann", "ann@example.com")
	require.NoError(t, err)

	s, err := p.Resolve(ctx, "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, s.UserID)

	cat, err := db.LoadCatalog(ctx, p.db, u.ID)
	require.NoError(t, err)
	assert.Len(t, cat.Items, 10, "signup seeds the default catalog")

	tok2, u2, err := p.Login(ctx, "ANN@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)
	assert.NotEqual(t, tok, tok2)

	_, _, err = p.Login(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	require.NoError(t, p.Logout(ctx, tok))
	_, err = p.Resolve(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = p.Resolve(ctx, tok2)
	assert.NoError(t, err, "other sessions survive")
	assert.NoError(t, p.Logout(ctx, "garbage"))
}

func TestExpiredSessionIsRejected(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)

	tok, _, err := p.Signup(ctx, "", "exp@example.com")
	require.NoError(t, err)

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.Resolve(ctx, tok)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestMiddlewareAttachesSession(t *testing.T) {
	ctx := context.Background()
	p := newTestProvider(t)
	tok, u, err := p.Signup(ctx, "", "mw@example.com")
	require.NoError(t, err)

	var seen *Session
	h := p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	assert.Equal(t, u.ID, seen.UserID)

	seen = nil
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Nil(t, seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer nope")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Nil(t, seen)
}

func TestLocalUserIsCreatedOnce(t *testing.T) {
	ctx := context.Background()
	dbh, err := db.Open(":memory:")
	require.NoError(t, err)
	defer dbh.Close()

	a, err := LocalUser(ctx, dbh, "")
	require.NoError(t, err)
	b, err := LocalUser(ctx, dbh, "me@localhost")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestCredentialsFile(t *testing.T) {
	t.Setenv(TokenEnv, "")
	path := filepath.Join(t.TempDir(), "credentials.json")

	c, err := LoadCredentials(path)
	require.NoError(t, err)
	assert.Nil(t, c)

	require.NoError(t, SaveCredentials(path, Credentials{Token: "Bearer abc", Email: "a@b.c"}))
	c, err = LoadCredentials(path)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "abc", c.Token)
	assert.Equal(t, "file", c.Source)

	t.Setenv(TokenEnv, "from-env")
	c, err = LoadCredentials(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.Token)
	assert.Equal(t, "env", c.Source)

	require.NoError(t, DeleteCredentials(path))
	require.NoError(t, DeleteCredentials(path))
	assert.Error(t, SaveCredentials(path, Credentials{}))
}
