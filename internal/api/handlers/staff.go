package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/baharkarakas/storefront-backend/internal/api/httpx"
	"github.com/baharkarakas/storefront-backend/internal/api/validate"
	"github.com/baharkarakas/storefront-backend/internal/auth"
	"github.com/baharkarakas/storefront-backend/internal/models"
	"github.com/baharkarakas/storefront-backend/internal/services"
)

type StaffHandler struct {
	Svc  *services.StaffService
	Errs ErrorWriter
}

func NewStaffHandler(svc *services.StaffService, errs ErrorWriter) *StaffHandler {
	return &StaffHandler{Svc: svc, Errs: errs}
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type createStaffReq struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin staff"`
}

type tokenResp struct {
	AccessToken  string            `json:"access_token"`
	RefreshToken string            `json:"refresh_token"`
	ExpiresIn    int64             `json:"expires_in"` // seconds
	User         *models.StaffUser `json:"user,omitempty"`
}

func newTokenResp(p auth.Pair, u *models.StaffUser) tokenResp {
	return tokenResp{
		AccessToken:  p.Access,
		RefreshToken: p.Refresh,
		ExpiresIn:    int64(time.Until(p.AccessExp).Truncate(time.Second) / time.Second),
		User:         u,
	}
}

// decode reads JSON into dst and runs its validate tags.
func (h *StaffHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.Errs.BadRequest(w, "invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		h.Errs.Write(w, r, err)
		return false
	}
	return true
}

func (h *StaffHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !h.decode(w, r, &req) {
		return
	}
	pair, u, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, newTokenResp(pair, &u))
}

func (h *StaffHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if !h.decode(w, r, &req) {
		return
	}
	pair, err := h.Svc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, newTokenResp(pair, nil))
}

func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, list)
}

func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createStaffReq
	if !h.decode(w, r, &req) {
		return
	}
	u, err := h.Svc.Create(r.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	httpx.OK(w, http.StatusCreated, u)
}
