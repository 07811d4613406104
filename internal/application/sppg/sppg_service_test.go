package sppg

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bergizi/backend/internal/domain/identity"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockSPPGRepository struct {
	mock.Mock
}

func (m *MockSPPGRepository) FindByID(ctx context.Context, id uuid.UUID) (*sppg.SPPG, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sppg.SPPG), args.Error(1)
}

func (m *MockSPPGRepository) FindByCode(ctx context.Context, code string) (*sppg.SPPG, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sppg.SPPG), args.Error(1)
}

func (m *MockSPPGRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sppg.SPPG, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sppg.SPPG), args.Error(1)
}

func (m *MockSPPGRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSPPGRepository) CountByStatus(ctx context.Context) (map[sppg.Status]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[sppg.Status]int64), args.Error(1)
}

func (m *MockSPPGRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockSPPGRepository) Save(ctx context.Context, s *sppg.SPPG) error {
	return m.Called(ctx, s).Error(0)
}

type MockUserRepository struct {
	identity.UserRepository
	mock.Mock
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

type fixture struct {
	repo      *MockSPPGRepository
	users     *MockUserRepository
	publisher *recordingPublisher
	service   *SPPGService
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(MockSPPGRepository),
		users:     new(MockUserRepository),
		publisher: &recordingPublisher{},
	}
	f.service = NewSPPGService(f.repo, f.users, zap.NewNop())
	f.service.SetEventPublisher(f.publisher)
	return f
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	return domainErr.Code
}

func TestSPPGService_Create_WithKepala(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("ExistsByCode", ctx, "sppg-bdg-01").Return(false, nil)
	f.users.On("ExistsByUsername", ctx, "kepala.bdg01").Return(false, nil)
	f.repo.On("Save", ctx, mock.AnythingOfType("*sppg.SPPG")).Return(nil)
	f.users.On("Save", ctx, mock.MatchedBy(func(u *identity.User) bool {
		return u.Role == identity.RoleSPPGKepala && u.TenantID != uuid.Nil
	})).Return(nil)

	resp, err := f.service.Create(ctx, CreateSPPGRequest{
		Code:           "sppg-bdg-01",
		Name:           "SPPG Bandung 01",
		Province:       "Jawa Barat",
		TargetPortions: 3000,
		AdminUsername:  "kepala.bdg01",
		AdminPassword:  "rahasia123",
	})
	require.NoError(t, err)
	assert.Equal(t, "SPPG-BDG-01", resp.Code)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, "basic", resp.Plan)
	assert.Equal(t, 3000, resp.TargetPortions)
	assert.Equal(t, []string{sppg.EventTypeSPPGCreated}, f.publisher.types())
	f.users.AssertExpectations(t)
}

func TestSPPGService_Create_BadAdminPasswordSavesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("ExistsByCode", ctx, "SPPG-02").Return(false, nil)
	f.users.On("ExistsByUsername", ctx, "kepala02").Return(false, nil)

	_, err := f.service.Create(ctx, CreateSPPGRequest{Code: "SPPG-02", Name: "SPPG 02", AdminUsername: "kepala02", AdminPassword: "short"})
	assert.Equal(t, "INVALID_PASSWORD", domainCode(t, err))
	f.repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSPPGService_Create_DuplicateCode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.On("ExistsByCode", ctx, "SPPG-02").Return(true, nil)

	_, err := f.service.Create(ctx, CreateSPPGRequest{Code: "SPPG-02", Name: "SPPG 02"})
	assert.Equal(t, "ALREADY_EXISTS", domainCode(t, err))
}

func TestSPPGService_ActivateThenSuspend(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tenant, err := sppg.NewSPPG("SPPG-03", "SPPG 03", sppg.PlanPro)
	require.NoError(t, err)
	tenant.ClearDomainEvents()
	f.repo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	f.repo.On("Save", ctx, tenant).Return(nil)

	_, err = f.service.Suspend(ctx, tenant.ID)
	assert.Equal(t, "INVALID_STATE", domainCode(t, err))

	resp, err := f.service.Activate(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)

	resp, err = f.service.Suspend(ctx, tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", resp.Status)
	assert.Equal(t, []string{sppg.EventTypeSPPGStatusChanged, sppg.EventTypeSPPGStatusChanged}, f.publisher.types())
}

func TestSPPGService_Update_ChangesPlan(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tenant, err := sppg.NewSPPG("SPPG-04", "SPPG 04", sppg.PlanDemo)
	require.NoError(t, err)
	f.repo.On("FindByID", ctx, tenant.ID).Return(tenant, nil)
	f.repo.On("Save", ctx, tenant).Return(nil)

	resp, err := f.service.Update(ctx, tenant.ID, UpdateSPPGRequest{Name: "SPPG Empat", Plan: "pro", TargetPortions: 1500})
	require.NoError(t, err)
	assert.Equal(t, "pro", resp.Plan)
	assert.Equal(t, "SPPG Empat", resp.Name)

	_, err = f.service.Update(ctx, tenant.ID, UpdateSPPGRequest{Name: "SPPG Empat", TargetPortions: -1})
	assert.Equal(t, "INVALID_TARGET_PORTIONS", domainCode(t, err))
}
