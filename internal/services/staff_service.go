package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/baharkarakas/storefront-backend/internal/auth"
	"github.com/baharkarakas/storefront-backend/internal/models"
	repo "github.com/baharkarakas/storefront-backend/internal/repository"
)

const minPasswordLen = 8

// StaffService owns back-office accounts and token issuance.
type StaffService struct {
	r      repo.Staff
	audits repo.AuditLogs
	tm     *auth.TokenManager
	log    *slog.Logger
}

func NewStaffService(r repo.Staff, audits repo.AuditLogs, tm *auth.TokenManager, log *slog.Logger) *StaffService {
	return &StaffService{r: r, audits: audits, tm: tm, log: log.With("component", "staff")}
}

func (s *StaffService) Create(ctx context.Context, name, email, password, role string) (models.StaffUser, error) {
	return s.create(ctx, name, email, password, role, "created")
}

func (s *StaffService) create(ctx context.Context, name, email, password, role, action string) (models.StaffUser, error) {
	u := models.StaffUser{
		Name:  strings.TrimSpace(name),
		Email: strings.ToLower(strings.TrimSpace(email)),
		Role:  strings.TrimSpace(role),
	}
	if err := u.Validate(); err != nil {
		return models.StaffUser{}, invalid("%s", err.Error())
	}
	if len(password) < minPasswordLen {
		return models.StaffUser{}, invalid("password must be at least %d characters", minPasswordLen)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.StaffUser{}, err
	}
	u.PasswordHash = hash

	created, err := s.r.Create(ctx, u)
	if errors.Is(err, repo.ErrDuplicate) {
		return models.StaffUser{}, &ConflictError{Message: "email already registered"}
	}
	if err != nil {
		return models.StaffUser{}, persistence("create staff", err)
	}
	s.log.Info("staff account created", "staff_id", created.ID, "role", created.Role)
	s.audit(ctx, created, action)
	return created, nil
}

// audit records account changes; the account already exists, so a failed
// write is logged rather than returned.
func (s *StaffService) audit(ctx context.Context, u models.StaffUser, action string) {
	id := u.ID
	err := s.audits.Create(ctx, models.AuditLog{
		EntityType: models.AuditEntityStaff,
		EntityID:   &id,
		Action:     action,
		Details:    map[string]any{"email": u.Email, "role": u.Role},
	})
	if err != nil {
		s.log.Error("staff audit failed", "staff_id", u.ID, "action", action, "err", err)
	}
}

func (s *StaffService) List(ctx context.Context) ([]models.StaffUser, error) {
	out, err := s.r.List(ctx)
	if err != nil {
		return nil, persistence("list staff", err)
	}
	return out, nil
}

// Login checks the password and returns a fresh token pair.
func (s *StaffService) Login(ctx context.Context, email, password string) (auth.Pair, models.StaffUser, error) {
	u, err := s.r.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repo.ErrNotFound) {
		return auth.Pair{}, models.StaffUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Pair{}, models.StaffUser{}, persistence("login", err)
	}
	if err := auth.VerifyPassword(password, u.PasswordHash); err != nil {
		return auth.Pair{}, models.StaffUser{}, ErrInvalidCredentials
	}
	pair, err := s.tm.GeneratePair(u.ID, u.Role)
	if err != nil {
		return auth.Pair{}, models.StaffUser{}, err
	}
	return pair, u, nil
}

// Refresh re-issues tokens; the role is re-read so demotions take effect.
func (s *StaffService) Refresh(ctx context.Context, refreshToken string) (auth.Pair, error) {
	claims, err := s.tm.ParseRefresh(refreshToken)
	if err != nil {
		return auth.Pair{}, ErrInvalidCredentials
	}
	u, err := s.r.GetByID(ctx, claims.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return auth.Pair{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Pair{}, persistence("refresh", err)
	}
	return s.tm.GeneratePair(u.ID, u.Role)
}

// EnsureAdmin seeds the first admin account; an existing email is left alone.
func (s *StaffService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.r.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	_, err = s.create(ctx, "Administrator", email, password, models.RoleAdmin, "admin_seeded")
	return err
}
