// Package repotest provides an in-memory AdminRepository for tests.
package repotest

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/storefront-admin/internal/domain"
	"github.com/spec-kit/storefront-admin/internal/repository"
)

// MemAdminRepo is an in-memory stand-in for the Postgres repository. Records
// are copied in and out so callers cannot mutate the store directly.
type MemAdminRepo struct {
	mu     sync.Mutex
	nextID int64
	admins map[int64]domain.Administrator
}

var _ repository.AdminRepository = (*MemAdminRepo)(nil)

// NewMemAdminRepo creates an empty store.
func NewMemAdminRepo() *MemAdminRepo {
	return &MemAdminRepo{admins: make(map[int64]domain.Administrator)}
}

// Seed inserts a record directly, bypassing validation, and returns the
// stored copy with its assigned id.
func (r *MemAdminRepo) Seed(admin domain.Administrator) domain.Administrator {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	admin.ID = r.nextID
	admin.Email = strings.ToLower(admin.Email)
	now := time.Now()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	r.admins[admin.ID] = admin
	return admin
}

// Count reports the number of stored records.
func (r *MemAdminRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.admins)
}

func (r *MemAdminRepo) Create(_ context.Context, admin *domain.Administrator) error {
	stored := r.Seed(*admin)
	*admin = stored
	return nil
}

func (r *MemAdminRepo) Update(_ context.Context, admin *domain.Administrator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.admins[admin.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Name = admin.Name
	stored.Email = strings.ToLower(admin.Email)
	stored.AccessLevel = admin.AccessLevel
	stored.UpdatedAt = time.Now()
	r.admins[admin.ID] = stored
	return nil
}

func (r *MemAdminRepo) UpdateStatus(_ context.Context, id int64, status domain.AdminStatus, active bool, emailVerified *bool) (*domain.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	stored.Status = status
	stored.Active = active
	if emailVerified != nil {
		stored.EmailVerified = *emailVerified
	}
	stored.UpdatedAt = time.Now()
	r.admins[id] = stored
	out := stored
	return &out, nil
}

func (r *MemAdminRepo) Activate(_ context.Context, id int64, passwordHash string) (*domain.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	stored.PasswordHash = passwordHash
	stored.Status = domain.AdminStatusActive
	stored.Active = true
	stored.EmailVerified = true
	stored.ActivationToken = nil
	stored.ActivationTokenExpiry = nil
	stored.UpdatedAt = time.Now()
	r.admins[id] = stored
	out := stored
	return &out, nil
}

func (r *MemAdminRepo) GetByID(_ context.Context, id int64) (*domain.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.admins[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := stored
	return &out, nil
}

func (r *MemAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	for _, stored := range r.admins {
		if stored.Email == email {
			out := stored
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemAdminRepo) GetByActivationToken(_ context.Context, token string) (*domain.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, stored := range r.admins {
		if stored.ActivationToken != nil && *stored.ActivationToken == token {
			out := stored
			return &out, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemAdminRepo) List(_ context.Context) ([]domain.Administrator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Administrator, 0, len(r.admins))
	for _, stored := range r.admins {
		out = append(out, stored)
	}
	return out, nil
}

func (r *MemAdminRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admins[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.admins, id)
	return nil
}

func (r *MemAdminRepo) RecordLogin(_ context.Context, id int64) error {
	return r.stamp(id, func(a *domain.Administrator, now time.Time) { a.LastLogin = &now })
}

func (r *MemAdminRepo) RecordLogout(_ context.Context, id int64) error {
	return r.stamp(id, func(a *domain.Administrator, now time.Time) { a.LastLogout = &now })
}

func (r *MemAdminRepo) stamp(id int64, apply func(*domain.Administrator, time.Time)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.admins[id]
	if !ok {
		return pgx.ErrNoRows
	}
	apply(&stored, time.Now())
	r.admins[id] = stored
	return nil
}
