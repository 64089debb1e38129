package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/IlyasAtabaev731/ecofinds/internal/config"
	"github.com/IlyasAtabaev731/ecofinds/internal/notify"
	"github.com/IlyasAtabaev731/ecofinds/internal/service"
)

type APIServer struct {
	config    *config.Config
	logger    *slog.Logger
	server    *http.Server
	market    *service.Market
	registry  *notify.Registry
	jwtSecret []byte
	upgrader  websocket.Upgrader
}

func New(config *config.Config, logger *slog.Logger, market *service.Market, registry *notify.Registry) *APIServer {
	s := &APIServer{
		config: config,
		logger: logger,
		server: &http.Server{
			Addr: config.ApiHost + ":" + strconv.Itoa(config.ApiPort),
		},
		market:    market,
		registry:  registry,
		jwtSecret: []byte(config.JWT.Secret),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	s.configureRouter()

	return s
}

func (s *APIServer) Start() error {
	s.logger.Info("Starting server", slog.String("port", strconv.Itoa(s.config.ApiPort)))

	return s.server.ListenAndServe()
}

func (s *APIServer) MustStart() {
	err := s.Start()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		panic("Failed to start server: " + err.Error())
	}
}

func (s *APIServer) Stop(ctx context.Context) error {
	defer s.logger.Info("Server successfully stopped")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) configureRouter() {
	router := mux.NewRouter()

	router.HandleFunc("/auth/register", s.registerHandler()).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", s.loginHandler()).Methods(http.MethodPost)

	router.HandleFunc("/users/me", s.authenticate(s.meHandler())).Methods(http.MethodGet)
	router.HandleFunc("/users/{id}", s.userHandler()).Methods(http.MethodGet)

	router.HandleFunc("/items", s.listItemsHandler()).Methods(http.MethodGet)
	router.HandleFunc("/items", s.authenticate(s.createItemHandler())).Methods(http.MethodPost)
	router.HandleFunc("/items/user/{id}", s.userItemsHandler()).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}", s.itemHandler()).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}/purchase", s.authenticate(s.purchaseHandler())).Methods(http.MethodPost)

	router.HandleFunc("/messages/{item_id}", s.authenticate(s.messagesHandler())).Methods(http.MethodGet)
	router.HandleFunc("/messages", s.authenticate(s.sendMessageHandler())).Methods(http.MethodPost)

	router.HandleFunc("/transactions", s.authenticate(s.transactionsHandler())).Methods(http.MethodGet)

	router.HandleFunc("/dummy-data", s.dummyDataHandler()).Methods(http.MethodGet)

	router.HandleFunc("/ws/{user_id}", s.wsHandler()).Methods(http.MethodGet)

	router.Use(s.logRequests)

	cors := handlers.CORS(
		handlers.AllowedOrigins(s.config.CORS.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
	)
	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.logger}),
		handlers.PrintRecoveryStack(s.config.Env != "prod"),
	)

	s.server.Handler = recovery(cors(router))
}

// recoveryLogger routes panics caught by handlers.RecoveryHandler to slog.
type recoveryLogger struct {
	logger *slog.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.logger.Error("Recovered from panic", "panic", fmt.Sprint(v...))
}

func (s *APIServer) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range s.config.CORS.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
