package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TokenEnv overrides the saved credentials when set.
const TokenEnv = "SHOPPINGIFY_TOKEN"

// Credentials is what `shoppingify login` saves for the online mode.
type Credentials struct {
	Token     string    `json:"token"`
	Email     string    `json:"email,omitempty"`
	BaseURL   string    `json:"base_url,omitempty"`
	Source    string    `json:"source"` // "env" | "file"
	CreatedAt time.Time `json:"created_at"`
}

// LoadCredentials returns nil, nil when the user is not logged in.
func LoadCredentials(path string) (*Credentials, error) {
	if env := strings.TrimSpace(os.Getenv(TokenEnv)); env != "" {
		return &Credentials{Token: StripBearer(env), Source: "env"}, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	c.Token = StripBearer(c.Token)
	c.Source = "file"
	return &c, nil
}

// SaveCredentials writes c to path, owner-only.
func SaveCredentials(path string, c Credentials) error {
	c.Token = StripBearer(c.Token)
	if c.Token == "" {
		return fmt.Errorf("empty token")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	c.Source = "file"
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func DeleteCredentials(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}
