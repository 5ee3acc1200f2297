// internal/handlers/auth.go
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ammerola/stockcart-be/internal/core/domain"
	"github.com/ammerola/stockcart-be/internal/core/ports"
	"github.com/ammerola/stockcart-be/internal/handlers/middleware"
)

// AuthHandler handles registration, login, and user-record requests.
type AuthHandler struct {
	provider ports.IdentityProvider
	limiter  ports.LoginLimiter
	gateway  ports.RecordGateway
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(provider ports.IdentityProvider, limiter ports.LoginLimiter, gateway ports.RecordGateway, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		provider: provider,
		limiter:  limiter,
		gateway:  gateway,
		logger:   logger.With(slog.String("handler", "auth")),
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
}

// Register handles POST /auth/register. The userId is chosen by the
// client and immutable once taken.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Missing credentials")
		return
	}
	if req.Email == "" || req.Password == "" || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	taken, err := h.gateway.Find(ctx, domain.CollectionUsers, domain.Filters{"user_id": req.UserID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to check userId",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(taken) > 0 {
		respondError(w, http.StatusBadRequest, "userId already taken")
		return
	}

	identity, err := h.provider.SignUp(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "sign up rejected",
			slog.String("error", err.Error()))
		respondError(w, http.StatusBadRequest, "Failed to create user")
		return
	}

	record, err := h.gateway.Insert(ctx, domain.CollectionUsers, map[string]any{
		"user_id": req.UserID,
		"auth_id": identity.ID,
		"email":   req.Email,
		"name":    req.Name,
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			// Lost a race on the same userId between check and insert.
			respondError(w, http.StatusBadRequest, "userId already taken")
			return
		}
		h.logger.ErrorContext(ctx, "failed to store user record",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.logger.InfoContext(ctx, "user registered", slog.String("user_id", req.UserID))
	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "User created",
		"user":    domain.UserFromRecord(record),
		"userId":  req.UserID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := middleware.ClientIP(r)

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Missing credentials")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing credentials")
		return
	}

	allowed, err := h.limiter.Allow(ctx, req.Email, ip)
	if err != nil {
		h.logger.ErrorContext(ctx, "login limiter unavailable",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !allowed {
		respondError(w, http.StatusTooManyRequests, "Too many login attempts")
		return
	}

	session, err := h.provider.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrValidation) {
			if _, lerr := h.limiter.Failure(ctx, req.Email, ip); lerr != nil {
				h.logger.WarnContext(ctx, "failed to record login failure",
					slog.String("error", lerr.Error()))
			}
			respondError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.logger.ErrorContext(ctx, "sign in failed",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.limiter.Success(ctx, req.Email, ip); err != nil {
		h.logger.WarnContext(ctx, "failed to reset login counter",
			slog.String("error", err.Error()))
	}

	response := map[string]any{"access_token": session.AccessToken}
	if identity, err := h.provider.GetUser(ctx, session.AccessToken); err == nil {
		records, err := h.gateway.Find(ctx, domain.CollectionUsers, domain.Filters{"auth_id": identity.ID})
		if err == nil && len(records) > 0 {
			response["user"] = domain.UserFromRecord(records[0])
		}
	}

	respondJSON(w, http.StatusOK, response)
}

// GetUser handles GET /auth/user/{id}. Public profile lookup by userId.
func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	records, err := h.gateway.Find(ctx, domain.CollectionUsers, domain.Filters{"user_id": userID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to look up user",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": domain.UserFromRecord(records[0])})
}

type updateUserRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

// UpdateUser handles PUT /auth/user/{id}. Only name and email are
// mutable; userId and authId never change.
func (h *AuthHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := r.PathValue("id")

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := make(map[string]any)
	if req.Email != nil && *req.Email != "" {
		fields["email"] = *req.Email
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if len(fields) == 0 {
		respondError(w, http.StatusBadRequest, "No valid fields provided")
		return
	}

	records, err := h.gateway.UpdateWhere(ctx, domain.CollectionUsers,
		domain.Filters{"user_id": userID}, fields)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to update user",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": domain.UserFromRecord(records[0])})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity := middleware.IdentityFrom(ctx)
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	records, err := h.gateway.Find(ctx, domain.CollectionUsers, domain.Filters{"auth_id": identity.ID})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to look up user",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if len(records) == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": domain.UserFromRecord(records[0])})
}
