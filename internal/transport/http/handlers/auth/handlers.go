package authhandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/transport/http/api"
	"hrms/internal/transport/http/middleware"
	"hrms/internal/transport/http/shared"
)

type Handler struct {
	Service *auth.Service
	Perms   middleware.PermissionStore
	Audit   audit.Trail
}

func NewHandler(service *auth.Service, perms middleware.PermissionStore, trail audit.Trail) *Handler {
	return &Handler{Service: service, Perms: perms, Audit: trail}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTP      string `json:"otp"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type mfaCodeRequest struct {
	Code string `json:"code"`
}

type createUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.HandleLogin)
		r.Post("/request-reset", h.HandleRequestReset)
		r.Post("/reset-password", h.HandleResetPassword)
		r.With(middleware.RequireUser).Post("/mfa/setup", h.HandleMFASetup)
		r.With(middleware.RequireUser).Post("/mfa/enable", h.HandleMFAEnable)
	})
	r.With(middleware.RequireUser).Get("/me", h.HandleMe)
	r.With(middleware.RequirePermission(auth.PermUsersManage, h.Perms)).Post("/users", h.HandleCreateUser)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password, payload.OTP)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	me, err := h.Service.Me(r.Context(), user.UserID)
	if err != nil {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, me, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleRequestReset(w http.ResponseWriter, r *http.Request) {
	var payload resetRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	if err := h.Service.RequestReset(r.Context(), payload.Email); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "reset_requested"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var payload resetPasswordRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	if err := h.Service.ResetPassword(r.Context(), payload.Token, payload.NewPassword); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "password_reset"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	setup, err := h.Service.SetupMFA(r.Context(), user.UserID)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	api.Success(w, setup, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload mfaCodeRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	if err := h.Service.EnableMFA(r.Context(), user.UserID, payload.Code); err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "auth.mfa.enable", "user", user.UserID, nil, nil)
	api.Success(w, map[string]string{"status": "enabled"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var payload createUserRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	user, err := h.Service.CreateUser(r.Context(), auth.User{
		Email:              payload.Email,
		FirstName:          payload.FirstName,
		LastName:           payload.LastName,
		Role:               payload.Role,
		MustChangePassword: true,
		IsActive:           true,
	}, payload.Password)
	if err != nil {
		shared.WriteError(w, r, err)
		return
	}
	shared.Audit(r, h.Audit, "auth.user.create", "user", user.ID, nil, user)
	api.Created(w, user, middleware.GetRequestID(r.Context()))
}
