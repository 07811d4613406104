package handler

import (
	"context"
	"sync"

	"github.com/bergizi/backend/internal/domain/identity"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/google/uuid"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*identity.User
}

func newMemUserRepo(users ...*identity.User) *memUserRepo {
	r := &memUserRepo{users: make(map[uuid.UUID]*identity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepo) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	u, err := r.FindByID(ctx, id)
	if err != nil || u.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]identity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []identity.User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	users, _ := r.FindAllForTenant(ctx, tenantID, filter)
	return int64(len(users)), nil
}

func (r *memUserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *memUserRepo) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r *memUserRepo) Save(_ context.Context, user *identity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) DeleteForTenant(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; !ok || u.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type memSPPGRepo struct {
	mu    sync.Mutex
	sppgs map[uuid.UUID]*sppg.SPPG
}

func newMemSPPGRepo(sppgs ...*sppg.SPPG) *memSPPGRepo {
	r := &memSPPGRepo{sppgs: make(map[uuid.UUID]*sppg.SPPG)}
	for _, s := range sppgs {
		r.sppgs[s.ID] = s
	}
	return r
}

func (r *memSPPGRepo) FindByID(_ context.Context, id uuid.UUID) (*sppg.SPPG, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sppgs[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSPPGRepo) FindByCode(_ context.Context, code string) (*sppg.SPPG, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sppgs {
		if s.Code == code {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSPPGRepo) FindAll(_ context.Context, _ shared.Filter) ([]sppg.SPPG, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sppg.SPPG, 0, len(r.sppgs))
	for _, s := range r.sppgs {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSPPGRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r *memSPPGRepo) CountByStatus(context.Context) (map[sppg.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[sppg.Status]int64)
	for _, s := range r.sppgs {
		out[s.Status]++
	}
	return out, nil
}

func (r *memSPPGRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := r.FindByCode(ctx, code)
	return err == nil, nil
}

func (r *memSPPGRepo) Save(_ context.Context, s *sppg.SPPG) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sppgs[s.ID] = s
	return nil
}

func activeSPPG(code string) *sppg.SPPG {
	s, err := sppg.NewSPPG(code, "SPPG "+code, sppg.PlanBasic)
	if err != nil {
		panic(err)
	}
	if err := s.Activate(); err != nil {
		panic(err)
	}
	s.ClearDomainEvents()
	return s
}
