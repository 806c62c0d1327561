package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/accounts/internal/logging"
	"github.com/gorilla/mux"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Logger  logging.Logger
	Service AccountService
	// AvatarDir, when set, is served under /avatars/.
	AvatarDir string
}

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(Recovery(cfg.Logger))
	r.Use(Logging(cfg.Logger))

	h := NewHandler(cfg.Service, cfg.Logger)
	authMiddleware := Auth(cfg.Service)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	users := r.PathPrefix("/users").Subrouter()
	users.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	users.HandleFunc("/login", h.Login).Methods(http.MethodPost)

	protected := r.PathPrefix("/users").Subrouter()
	protected.Use(authMiddleware)
	protected.HandleFunc("", h.List).Methods(http.MethodGet)
	protected.HandleFunc("", h.Create).Methods(http.MethodPost)
	protected.HandleFunc("/me", h.Me).Methods(http.MethodGet)
	protected.HandleFunc("/me", h.EditMe).Methods(http.MethodPut)
	protected.HandleFunc("/{id:[0-9]+}", h.Get).Methods(http.MethodGet)

	if cfg.AvatarDir != "" {
		r.PathPrefix("/avatars/").Handler(http.StripPrefix("/avatars/", http.FileServer(http.Dir(cfg.AvatarDir)))).
			Methods(http.MethodGet)
	}

	return r
}
