// Package api exposes the shopping service over HTTP and provides the
// matching client used by the online account mode.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ramanasai/shoppingify/internal/auth"
	"github.com/ramanasai/shoppingify/internal/service"
)

// PurgeInterval is how often expired sessions are dropped while serving.
const PurgeInterval = time.Hour

type Server struct {
	svc    *service.Service
	auth   *auth.Provider
	log    *zap.Logger
	router *mux.Router
}

func NewServer(svc *service.Service, provider *auth.Provider, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{svc: svc, auth: provider, log: log.Named("api")}
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)
	r.Use(s.auth.Middleware)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})

	r.Methods(http.MethodPost).Path("/api/signup").HandlerFunc(s.signup)
	r.Methods(http.MethodPost).Path("/api/login").HandlerFunc(s.login)
	r.Methods(http.MethodPost).Path("/api/logout").HandlerFunc(s.logout)
	r.Methods(http.MethodGet).Path("/api/session").HandlerFunc(s.session)

	a := r.PathPrefix("/api").Subrouter()
	a.Use(requireSession)
	a.Methods(http.MethodGet).Path("/catalog").HandlerFunc(s.catalog)
	a.Methods(http.MethodPost).Path("/items").HandlerFunc(s.createItem)
	a.Methods(http.MethodGet).Path("/items/{id}").HandlerFunc(s.getItem)
	a.Methods(http.MethodDelete).Path("/items/{id}").HandlerFunc(s.deleteItem)
	a.Methods(http.MethodPost).Path("/categories").HandlerFunc(s.createCategory)
	a.Methods(http.MethodGet).Path("/lists/active").HandlerFunc(s.activeList)
	a.Methods(http.MethodPut).Path("/lists/active").HandlerFunc(s.saveList)
	a.Methods(http.MethodGet).Path("/lists").HandlerFunc(s.history)
	a.Methods(http.MethodGet).Path("/lists/{id}").HandlerFunc(s.getList)
	a.Methods(http.MethodPatch).Path("/lists/{id}").HandlerFunc(s.patchList)
	a.Methods(http.MethodGet).Path("/stats").HandlerFunc(s.stats)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.log.Info("handled",
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
			zap.Duration("duration", m.Duration),
			zap.Int("status", m.Code),
			zap.Int64("bytes", m.Written),
		)
	})
}

func requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.FromContext(r.Context()) == nil {
			writeError(w, auth.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg := new(sync.WaitGroup)
	wg.Add(1)
	go func() {
		defer wg.Done()
		t := time.NewTicker(PurgeInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				s.auth.PurgeExpired(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()

	errc := make(chan error, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.log.Info("listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
			cancel()
		}
	}()

	<-ctx.Done()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("shutdown", zap.Error(err))
	}
	wg.Wait()

	select {
	case err := <-errc:
		return err
	default:
		return nil
	}
}
