package handlers

import (
	"net/http"

	"bankaccounts/internal/cache"
	"bankaccounts/internal/config"
	"bankaccounts/internal/db"
	"bankaccounts/internal/middleware"
	"bankaccounts/internal/models"
	"bankaccounts/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner  db.TxRunner
	cfg       config.Config
	users     UserStore
	audit     AuditStore
	cards     CardService
	currency  CurrencyService
	messages  MessageService
	transfers TransferService
	cache     *cache.Cache
	hub       *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, users UserStore, audit AuditStore, cards CardService, currency CurrencyService, messages MessageService, transfers TransferService, c *cache.Cache, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:  txRunner,
		cfg:       cfg,
		users:     users,
		audit:     audit,
		cards:     cards,
		currency:  currency,
		messages:  messages,
		transfers: transfers,
		cache:     c,
		hub:       hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authed := middleware.Auth(h.cfg.JWTSecret)
	moderators := middleware.RequireRole(h.users, models.RoleModerator, models.RoleAdmin)
	admins := middleware.RequireRole(h.users, models.RoleAdmin)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.With(authed).Post("/logout", h.Logout)
		r.With(authed).Get("/me", h.Me)
	})

	router.Route("/profile", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.With(authed, moderators).Get("/", h.ListUsers)
		r.With(authed, moderators).Get("/filter", h.FilterUsers)
		r.With(authed).Get("/{id}", h.GetUser)
		r.With(authed).Put("/{id}", h.UpdateUser)
		r.With(authed).Patch("/{id}/avatar", h.UpdateAvatar)
		r.With(authed).Patch("/{id}/email", h.UpdateEmail)
		r.With(authed).Patch("/{id}/password", h.UpdatePassword)
		r.With(authed).Patch("/{id}/phone-number", h.UpdatePhoneNumber)
		r.With(authed).Patch("/{id}/visibility", h.UpdateVisibility)
		r.With(authed, admins).Patch("/{id}/role", h.UpdateRole)
		r.With(authed, moderators).Patch("/{id}/status", h.UpdateStatus)
		r.With(authed, admins).Delete("/{id}", h.DeleteUser)
	})

	router.Route("/api/currency-data", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", h.RefreshAndListCurrencies)
		r.Get("/{currency}", h.GetCurrency)
	})

	router.Route("/cards", func(r chi.Router) {
		r.Use(authed)
		r.Post("/", h.CreateCard)
		r.Get("/", h.ListCards)
		r.Get("/{id}", h.GetCard)
		r.Post("/{id}/refill", h.RefillCard)
		r.Patch("/{id}/status", h.ToggleCardStatus)
		r.Patch("/{id}/type", h.ChangeCardType)
		r.Post("/{id}/transfer", h.TransferFromCard)
		r.Delete("/{id}", h.DeleteCard)
	})

	router.With(authed).Get("/transfers/{reference}", h.GetTransfer)

	router.With(authed, admins).Get("/audit", h.ListAuditLogs)

	router.Route("/messages", func(r chi.Router) {
		r.Use(authed)
		r.Get("/", h.ListMessages)
		r.Post("/", h.SendMessage)
		r.Get("/{id}", h.GetMessage)
		r.Get("/content/{content}", h.GetMessagesByContent)
		r.Get("/sender/{id}", h.GetMessagesBySender)
		r.Get("/receiver/{id}", h.GetMessagesByReceiver)
	})

	router.Get("/ws/events", h.WSEvents)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
