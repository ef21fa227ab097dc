package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/storefront-backend/internal/api/httpx"
	"github.com/baharkarakas/storefront-backend/internal/models"
	"github.com/baharkarakas/storefront-backend/internal/services"
)

type PaymentHandler struct {
	Svc  *services.PaymentService
	Errs ErrorWriter
}

func NewPaymentHandler(svc *services.PaymentService, errs ErrorWriter) *PaymentHandler {
	return &PaymentHandler{Svc: svc, Errs: errs}
}

// order_id, amount and customer_phone arrive as either JSON numbers or
// strings. cart_items only feeds the email and is parsed leniently later, so
// its shape never rejects a confirmation.
type confirmPaymentReq struct {
	OrderID              json.RawMessage `json:"order_id"`
	PaymentMethod        string          `json:"payment_method"`
	Amount               json.RawMessage `json:"amount"`
	CustomerName         string          `json:"customer_name"`
	CustomerEmail        string          `json:"customer_email"`
	CustomerPhone        json.RawMessage `json:"customer_phone"`
	TransactionReference string          `json:"transaction_reference"`
	Notes                string          `json:"notes"`
	OrderType            string          `json:"order_type"`
	CartItems            json.RawMessage `json:"cart_items"`
	PickupDate           string          `json:"pickup_date"`
	PickupBranch         string          `json:"pickup_branch"`
}

type confirmPaymentResp struct {
	ID      int64                `json:"id"`
	OrderID *string              `json:"order_id"`
	Status  models.PaymentStatus `json:"status"`
}

// rawText returns a JSON string's contents or a number's literal text.
// Anything else (null, booleans, objects, arrays) yields "".
func rawText(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if strings.HasPrefix(s, `"`) {
		var out string
		if err := json.Unmarshal(raw, &out); err == nil {
			return out
		}
		return ""
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return ""
	}
	return n.String()
}

// Confirm handles POST /payments/confirm.
func (h *PaymentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmPaymentReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "invalid JSON body")
		return
	}
	p, err := h.Svc.Create(r.Context(), services.CreatePaymentInput{
		OrderID:              rawText(req.OrderID),
		OrderType:            req.OrderType,
		PaymentMethod:        req.PaymentMethod,
		Amount:               rawText(req.Amount),
		CustomerName:         req.CustomerName,
		CustomerEmail:        req.CustomerEmail,
		CustomerPhone:        rawText(req.CustomerPhone),
		TransactionReference: req.TransactionReference,
		Notes:                req.Notes,
		CartItems:            req.CartItems,
		PickupDate:           req.PickupDate,
		PickupBranch:         req.PickupBranch,
	})
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, confirmPaymentResp{ID: p.ID, OrderID: p.OrderID, Status: p.Status})
}

// List handles GET /payments/transactions.
func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.List(r.Context())
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, list)
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, p)
}

type transitionReq struct {
	Status string  `json:"status"`
	Action string  `json:"action"`
	Notes  *string `json:"notes"`
}

// UpdateStatus handles PATCH /payments/transactions/{id}/status.
func (h *PaymentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req transitionReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Errs.BadRequest(w, "invalid JSON body")
		return
	}
	p, err := h.Svc.Transition(r.Context(), id, services.TransitionInput{
		Status: req.Status,
		Action: req.Action,
		Notes:  req.Notes,
	})
	if err != nil {
		h.Errs.Write(w, r, err)
		return
	}
	httpx.OK(w, http.StatusOK, p)
}

func (h *PaymentHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.Errs.BadRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}
