package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"bankaccounts/internal/auth"
	"bankaccounts/internal/cache"
	"bankaccounts/internal/middleware"
	"bankaccounts/internal/models"
	"bankaccounts/internal/store"
	"bankaccounts/internal/validator"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const defaultAvatarURL = "https://i0.wp.com/sbcf.fr/wp-content/uploads/2018/03/sbcf-default-avatar.png?ssl=1"

type registerRequest struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	DateOfBirth string `json:"date_of_birth"`
	Country     string `json:"country_of_origin"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	for _, check := range []error{
		validator.ValidateName(req.Name),
		validator.ValidateSurname(req.Surname),
		validator.ValidateDateOfBirth(req.DateOfBirth),
		validator.ValidateCountry(req.Country),
		validator.ValidateEmail(req.Email),
		validator.ValidatePassword(req.Password),
		validator.ValidatePhone(req.PhoneNumber),
	} {
		if check != nil {
			respondError(w, http.StatusBadRequest, check.Error())
			return
		}
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}
	userID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		input := store.UserInput{
			ID:           userID,
			Role:         models.RoleUser,
			Status:       models.UserStatusDefault,
			Visibility:   models.VisibilityOnline,
			Name:         req.Name,
			Surname:      req.Surname,
			DateOfBirth:  req.DateOfBirth,
			Country:      req.Country,
			Email:        req.Email,
			PasswordHash: passwordHash,
			Avatar:       defaultAvatarURL,
			PhoneNumber:  req.PhoneNumber,
		}
		if err := h.users.Create(r.Context(), tx, input); err != nil {
			return err
		}
		data, _ := json.Marshal(map[string]string{
			"user_id":    userID,
			"ip":         r.RemoteAddr,
			"user_agent": r.UserAgent(),
		})
		return h.audit.Log(r.Context(), tx, userID, "register", "user", userID, string(data))
	})
	if err != nil {
		respondServiceError(w, conflictOnUnique(err, "email or phone number already exists"), "registration failed")
		return
	}
	h.cache.InvalidateAll(cache.CategoryUsers)
	token, err := auth.GenerateToken(h.cfg.JWTSecret, userID, h.cfg.TokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{
		"id":    userID,
		"token": token,
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) FilterUsers(w http.ResponseWriter, r *http.Request) {
	page := parseQueryInt(r, "page", 0)
	size := parseQueryInt(r, "size", 20)
	if page < 0 || size <= 0 || size > 100 {
		respondError(w, http.StatusBadRequest, "invalid page or size")
		return
	}
	sort := r.URL.Query().Get("sort")
	if sort == "" {
		sort = "asc"
	}
	var ascending bool
	switch sort {
	case "asc":
		ascending = true
	case "desc":
		ascending = false
	default:
		respondError(w, http.StatusBadRequest, "sort must be asc or desc")
		return
	}
	users, err := h.users.ListPage(r.Context(), ascending, size, page*size)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load users")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"page":  page,
		"size":  size,
		"users": users,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			respondError(w, http.StatusNotFound, "user not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to load user")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !h.authorizeSelf(w, r, userID) {
		return
	}
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	for _, check := range []error{
		validator.ValidateEmail(req.Email),
		validator.ValidatePassword(req.Password),
		validator.ValidatePhone(req.PhoneNumber),
	} {
		if check != nil {
			respondError(w, http.StatusBadRequest, check.Error())
			return
		}
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}
	h.updateField(w, r, "update_contacts", userID, func(tx *sqlx.Tx) (int64, error) {
		return h.users.UpdateContacts(r.Context(), tx, userID, req.Email, passwordHash, req.PhoneNumber)
	})
}

func (h *Handler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !h.authorizeSelf(w, r, userID) {
		return
	}
	var req struct {
		Avatar string `json:"avatar"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Avatar == "" {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	h.updateField(w, r, "update_avatar", userID, func(tx *sqlx.Tx) (int64, error) {
		return h.users.UpdateAvatar(r.Context(), tx, userID, req.Avatar)
	})
}

func (h *Handler) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !h.authorizeSelf(w, r, userID) {
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateEmail(req.Email); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.updateField(w, r, "update_email", userID, func(tx *sqlx.Tx) (int64, error) {
		return h.users.UpdateEmail(r.Context(), tx, userID, req.Email)
	})
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !h.authorizeSelf(w, r, userID) {
		return
	}
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidatePassword(req.Password); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to secure password")
		return
	}
	h.updateField(w, r, "update_password", userID, func(tx *sqlx.Tx) (int64, error) {
		return h.users.UpdatePassword(r.Context(), tx, userID, passwordHash)
	})
}

func (h *Handler) UpdatePhoneNumber(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !h.authorizeSelf(w, r, userID) {
		return
	}
	var req struct {
		PhoneNumber string `json:"phone_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidatePhone(req.PhoneNumber); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.updateField(w, r, "update_phone_number", userID, func(tx *sqlx.Tx) (int64, error) {
		return h.users.UpdatePhoneNumber(r.Context(), tx, userID, req.PhoneNumber)
	})
}

func (h *Handler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if !h.authorizeSelf(w, r, userID) {
		return
	}
	var req struct {
		Visibility string `json:"visibility"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	visibility, ok := models.ParseVisibility(req.Visibility)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown visibility")
		return
	}
	if h.updateField(w, r, "update_visibility", userID, func(tx *sqlx.Tx) (int64, error) {
		return h.users.UpdateVisibility(r.Context(), tx, userID, visibility)
	}) {
		h.hub.Publish(userID, presenceEvent(userID, visibility))
	}
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	role, ok := models.ParseUserRole(req.Role)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown role")
		return
	}
	h.updateField(w, r, "update_role", userID, func(tx *sqlx.Tx) (int64, error) {
		return h.users.UpdateRole(r.Context(), tx, userID, role)
	})
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	status, ok := models.ParseUserStatus(req.Status)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown status")
		return
	}
	h.updateField(w, r, "update_status", userID, func(tx *sqlx.Tx) (int64, error) {
		return h.users.UpdateStatus(r.Context(), tx, userID, status)
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	actorID, _ := middleware.UserIDFromContext(r.Context())
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		count, err := h.users.Delete(r.Context(), tx, userID)
		if err != nil {
			return err
		}
		affected = count
		if affected == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]string{"deleted_user_id": userID})
		return h.audit.Log(r.Context(), tx, actorID, "user_delete", "user", userID, string(data))
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete user")
		return
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	h.cache.InvalidateAll(cache.CategoryUsers)
	h.cache.InvalidateAll(cache.CategoryCards)
	w.WriteHeader(http.StatusNoContent)
}

// updateField runs a single-column user update inside a transaction,
// audits it, and answers 202. A zero-row update means the user does not
// exist and is answered with 404. Returns false if an error response was
// sent.
func (h *Handler) updateField(w http.ResponseWriter, r *http.Request, action, userID string, update func(tx *sqlx.Tx) (int64, error)) bool {
	var affected int64
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		count, err := update(tx)
		if err != nil {
			return err
		}
		affected = count
		if affected == 0 {
			return nil
		}
		data, _ := json.Marshal(map[string]string{"user_id": userID})
		return h.audit.Log(r.Context(), tx, userID, action, "user", userID, string(data))
	})
	if err != nil {
		respondServiceError(w, conflictOnUnique(err, "value already in use"), "update failed")
		return false
	}
	if affected == 0 {
		respondError(w, http.StatusNotFound, "user not found")
		return false
	}
	h.cache.InvalidateAll(cache.CategoryUsers)
	w.WriteHeader(http.StatusAccepted)
	return true
}

// authorizeSelf makes sure the caller only touches their own profile.
func (h *Handler) authorizeSelf(w http.ResponseWriter, r *http.Request, userID string) bool {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return false
	}
	if actorID == userID {
		return true
	}
	role, err := h.users.GetUserRole(r.Context(), actorID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to verify role")
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	respondError(w, http.StatusForbidden, "forbidden")
	return false
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return value
}
