package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/storefront-backend/internal/api/httpx"
	"github.com/baharkarakas/storefront-backend/internal/models"
	"github.com/baharkarakas/storefront-backend/internal/services"
)

type OrderHandler struct {
	Svc  *services.OrderService
	Errs ErrorWriter
}

func NewOrderHandler(svc *services.OrderService, errs ErrorWriter) *OrderHandler {
	return &OrderHandler{Svc: svc, Errs: errs}
}

// Get returns a handler reading {id} from the table for t.
func (h *OrderHandler) Get(t models.OrderType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil || id <= 0 {
			h.Errs.BadRequest(w, "invalid id")
			return
		}
		o, err := h.Svc.Get(r.Context(), t, id)
		if err != nil {
			h.Errs.Write(w, r, err)
			return
		}
		httpx.OK(w, http.StatusOK, o)
	}
}
