package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/baharkarakas/storefront-backend/internal/api/httpx"
	"github.com/baharkarakas/storefront-backend/internal/api/validate"
	"github.com/baharkarakas/storefront-backend/internal/middleware"
	"github.com/baharkarakas/storefront-backend/internal/services"
)

// ErrorWriter maps service errors onto HTTP failures. Raw error text is
// only exposed when Dev is set.
type ErrorWriter struct {
	Dev bool
	Log *slog.Logger
}

func (e ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve   *services.ValidationError
		nf   *services.NotFoundError
		ce   *services.ConflictError
		errs validate.Errs
	)
	switch {
	case errors.As(err, &ve):
		httpx.Fail(w, http.StatusBadRequest, ve.Message, "", nil)
	case errors.As(err, &errs):
		httpx.Fail(w, http.StatusBadRequest, "validation failed", "", errs)
	case errors.As(err, &nf):
		httpx.Fail(w, http.StatusNotFound, nf.Error(), "", nil)
	case errors.As(err, &ce):
		httpx.Fail(w, http.StatusConflict, ce.Message, "", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.Fail(w, http.StatusUnauthorized, "invalid credentials", "", nil)
	default:
		e.Log.Error("request failed",
			"err", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFrom(r.Context()),
		)
		detail := ""
		if e.Dev {
			detail = err.Error()
		}
		httpx.Fail(w, http.StatusInternalServerError, "internal error", detail, nil)
	}
}

func (e ErrorWriter) BadRequest(w http.ResponseWriter, msg string) {
	httpx.Fail(w, http.StatusBadRequest, msg, "", nil)
}
