package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/arawak/praline/internal/config"
	"github.com/arawak/praline/internal/ml"
	"github.com/arawak/praline/internal/search"
	"github.com/arawak/praline/internal/store"
	"github.com/arawak/praline/internal/swaggerui"
)

type Server struct {
	cfg     *config.Config
	store   *store.Store
	search  *search.Service
	apiKeys *APIKeyStore
	logger  *slog.Logger
}

var (
	openapiOnce sync.Once
	openapiData []byte
	openapiErr  error
)

func loadOpenAPI() ([]byte, error) {
	openapiOnce.Do(func() {
		path := filepath.Clean("openapi.yaml")
		openapiData, openapiErr = os.ReadFile(path)
	})
	return openapiData, openapiErr
}

func NewRouter(cfg *config.Config, st *store.Store, searchSvc *search.Service, apiKeys *APIKeyStore, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	s := &Server{cfg: cfg, store: st, search: searchSvc, apiKeys: apiKeys, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(loggingMiddleware(logger))

	if len(cfg.CORSAllowedOrigins) > 0 {
		c := cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "Accept", "X-Api-Key", "X-User-Id"},
			AllowCredentials: true,
		})
		r.Use(c.Handler)
	}

	r.Get("/healthz", s.GetHealthz)
	r.Get("/readyz", s.GetReadyz)
	r.Get(cfg.OpenAPIPath, s.serveOpenAPI)
	r.Mount(cfg.SwaggerUIPath, swaggerui.Handler(cfg.OpenAPIPath))

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware())
		r.Use(s.requirePermissions(PermCanSearch))
		r.Post("/api/search/metadata", s.SearchMetadata)
		r.Post("/api/search/smart", s.SearchSmart)
		r.Get("/api/search/explore", s.Explore)
		r.Get("/api/search/suggestions", s.Suggestions)
	})

	return r
}

func (s *Server) authMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch s.cfg.AuthMode {
			case config.AuthNone:
				next.ServeHTTP(w, r)
				return
			case config.AuthAPIKey:
				key, ok := s.apiKeys.Lookup(r.Header.Get("X-Api-Key"))
				if !ok {
					writeError(w, http.StatusUnauthorized, "unauthorized", "missing or invalid api key", nil)
					return
				}
				next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), newPrincipalFromAPIKey(key))))
				return
			case config.AuthOIDC:
				writeError(w, http.StatusNotImplemented, "not_implemented", "oidc auth mode is not implemented yet", nil)
				return
			default:
				writeError(w, http.StatusUnauthorized, "unauthorized", "auth mode not supported", nil)
				return
			}
		})
	}
}

func (s *Server) requirePermissions(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.cfg.AuthMode == config.AuthNone {
				next.ServeHTTP(w, r)
				return
			}
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized", "no principal", nil)
				return
			}
			for _, perm := range perms {
				if !p.HasPermission(perm) {
					writeError(w, http.StatusForbidden, "forbidden", "missing permission: "+perm, nil)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requester resolves the library user a request acts for: the user bound to
// the API key, or the X-User-Id header when auth is disabled (trusted
// reverse-proxy deployments).
func (s *Server) requester(r *http.Request) (search.Requester, error) {
	userID := ""
	if p, ok := PrincipalFromContext(r.Context()); ok {
		userID = p.UserID
	}
	if userID == "" {
		userID = r.Header.Get("X-User-Id")
	}
	if userID == "" {
		return search.Requester{}, errNoRequester
	}
	user, err := s.store.GetUser(r.Context(), userID)
	if err != nil {
		return search.Requester{}, err
	}
	return search.Requester{ID: user.ID, Order: user.SortOrder}, nil
}

var errNoRequester = errors.New("no requesting user")

func (s *Server) serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	data, err := loadOpenAPI()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", "unable to load openapi.yaml", map[string]any{"error": err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) GetHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) GetReadyz(w http.ResponseWriter, _ *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", "database unreachable", map[string]any{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) SearchMetadata(w http.ResponseWriter, r *http.Request) {
	requester, ok := s.mustRequester(w, r)
	if !ok {
		return
	}
	var req search.MetadataSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json", nil)
		return
	}
	s.logger.Info("metadata search", "user", requester.ID, "page", req.Page, "size", req.Size)
	resp, err := s.search.SearchMetadata(r.Context(), requester, req)
	if err != nil {
		s.writeSearchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) SearchSmart(w http.ResponseWriter, r *http.Request) {
	requester, ok := s.mustRequester(w, r)
	if !ok {
		return
	}
	var req search.SmartSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid json", nil)
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "query is required", nil)
		return
	}
	s.logger.Info("smart search", "user", requester.ID, "page", req.Page, "size", req.Size)
	resp, err := s.search.SearchSmart(r.Context(), requester, req)
	if err != nil {
		s.writeSearchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) Explore(w http.ResponseWriter, r *http.Request) {
	requester, ok := s.mustRequester(w, r)
	if !ok {
		return
	}
	results, err := s.search.Explore(r.Context(), requester)
	if err != nil {
		s.writeSearchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	requester, ok := s.mustRequester(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	req := search.SuggestionRequest{
		Type:    search.SuggestionType(q.Get("type")),
		Country: q.Get("country"),
		State:   q.Get("state"),
		Make:    q.Get("make"),
		Model:   q.Get("model"),
	}
	values, err := s.search.Suggest(r.Context(), requester, req)
	if err != nil {
		s.writeSearchError(w, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	writeJSON(w, http.StatusOK, values)
}

func (s *Server) mustRequester(w http.ResponseWriter, r *http.Request) (search.Requester, bool) {
	requester, err := s.requester(r)
	if err != nil {
		if errors.Is(err, errNoRequester) || errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthorized", "unknown requesting user", nil)
			return search.Requester{}, false
		}
		writeError(w, http.StatusInternalServerError, "internal", "failed to resolve user", map[string]any{"error": err.Error()})
		return search.Requester{}, false
	}
	return requester, true
}

func (s *Server) writeSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, search.ErrFeatureDisabled):
		writeError(w, http.StatusForbidden, "feature_disabled", err.Error(), nil)
	case errors.Is(err, search.ErrUnknownSuggestionType):
		writeError(w, http.StatusBadRequest, "bad_request", err.Error(), nil)
	case errors.Is(err, ml.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "ml_unavailable", err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "internal", "search failed", map[string]any{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type apiError struct {
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Details *map[string]any `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, apiError{Code: code, Message: message, Details: &details})
}

func loggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start).String())
		})
	}
}
