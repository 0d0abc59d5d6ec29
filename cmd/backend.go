package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/ramanasai/shoppingify/internal/api"
	"github.com/ramanasai/shoppingify/internal/auth"
	"github.com/ramanasai/shoppingify/internal/config"
	"github.com/ramanasai/shoppingify/internal/db"
	"github.com/ramanasai/shoppingify/internal/localcache"
	"github.com/ramanasai/shoppingify/internal/model"
	"github.com/ramanasai/shoppingify/internal/service"
	"github.com/ramanasai/shoppingify/internal/store"
	"github.com/ramanasai/shoppingify/internal/utils"
)

var errNotLoggedIn = errors.New("not logged in: run `shoppingify login` or set " + auth.TokenEnv)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	bold      = color.New(color.Bold)
)

func success(format string, a ...any) {
	okColor.Fprintf(color.Output, "✓ "+format+"\n", a...)
}

func warn(format string, a ...any) {
	warnColor.Fprintf(color.Output, "! "+format+"\n", a...)
}

// backend is an opened store backend and the cleanup it needs.
type backend struct {
	store.Backend
	// who the commands act as, for messages
	label string
	close func() error
}

// openBackend picks the backend for the configured account mode.
func openBackend(ctx context.Context) (*backend, error) {
	switch cfg.Account.Mode {
	case config.AccountOnline:
		client, creds, err := onlineClient()
		if err != nil {
			return nil, err
		}
		return &backend{Backend: client, label: creds.Email, close: func() error { return nil }}, nil

	case config.AccountOffline:
		path, err := cfg.OfflinePath()
		if err != nil {
			return nil, err
		}
		c, err := localcache.Open(path)
		if err != nil {
			return nil, err
		}
		return &backend{Backend: c, label: "offline", close: func() error { return nil }}, nil

	default:
		path, err := cfg.DatabasePath()
		if err != nil {
			return nil, err
		}
		dbh, err := db.Open(path)
		if err != nil {
			return nil, err
		}
		u, err := auth.LocalUser(ctx, dbh, cfg.Account.Email)
		if err != nil {
			_ = dbh.Close()
			return nil, fmt.Errorf("local user: %w", err)
		}
		svc := service.New(dbh, logger)
		return &backend{Backend: svc.ForUser(u.ID), label: u.Email, close: dbh.Close}, nil
	}
}

// openStore opens the backend and hydrates a store over it.
func openStore(ctx context.Context) (*store.Store, *backend, error) {
	b, err := openBackend(ctx)
	if err != nil {
		return nil, nil, err
	}
	s := store.New(b.Backend, logger)
	if err := s.Hydrate(ctx); err != nil {
		_ = b.close()
		return nil, nil, err
	}
	return s, b, nil
}

func credentialsPath() (string, error) {
	dir, err := config.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "credentials.json"), nil
}

func onlineClient() (*api.Client, *auth.Credentials, error) {
	path, err := credentialsPath()
	if err != nil {
		return nil, nil, err
	}
	creds, err := auth.LoadCredentials(path)
	if err != nil {
		return nil, nil, err
	}
	if creds == nil || creds.Token == "" {
		return nil, nil, errNotLoggedIn
	}
	base := creds.BaseURL
	if base == "" {
		base = cfg.API.BaseURL
	}
	return api.NewClient(base, creds.Token, nil), creds, nil
}

func renderer() (*utils.Renderer, error) {
	f, err := utils.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	rc := utils.DefaultRenderConfig()
	rc.Format = f
	rc.Color = !color.NoColor
	rc.ShowID = showIDs
	rc.Location = cfg.Location()
	return utils.NewRenderer(rc), nil
}

func printRendered(out string, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprint(color.Output, out)
	return nil
}

// findItem matches an item by id or by name, ignoring case.
func findItem(items []model.Item, ref string) (model.Item, error) {
	ref = strings.TrimSpace(ref)
	var byName []model.Item
	for _, it := range items {
		if it.ID == ref {
			return it, nil
		}
		if strings.EqualFold(it.Name, ref) {
			byName = append(byName, it)
		}
	}
	switch len(byName) {
	case 0:
		return model.Item{}, fmt.Errorf("no item named %q", ref)
	case 1:
		return byName[0], nil
	default:
		return model.Item{}, fmt.Errorf("%d items are named %q, use the id (--ids shows them)", len(byName), ref)
	}
}

// findEntry matches an entry on the active list by item id or name.
func findEntry(l *model.ShoppingList, ref string) (model.ListEntry, error) {
	if l != nil {
		ref = strings.TrimSpace(ref)
		for _, e := range l.Items {
			if e.ItemID == ref || strings.EqualFold(e.Name, ref) {
				return e, nil
			}
		}
	}
	return model.ListEntry{}, fmt.Errorf("%q is not on the list", ref)
}

// checkSynced warns when the last list action only changed local state.
func checkSynced(s *store.Store) {
	if l := s.ActiveList(); l != nil && l.IsDraft() && !l.IsEmpty() {
		warn("the list could not be saved; see the log for details")
	}
}
