package inventory

import (
	"context"

	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/procurement"
	"github.com/bergizi/backend/internal/domain/production"
)

// TransactionScope provides transactional access to the repositories that
// move stock. All repository operations inside Execute commit or roll back
// together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides repositories bound to one transaction
type TransactionalRepositories interface {
	ItemRepo() inventory.ItemRepository
	MovementRepo() inventory.MovementRepository
	OrderRepo() procurement.OrderRepository
	ProductionRepo() production.Repository
}

// NoOpTransactionScope runs the function against plain repositories.
// It is useful in tests.
type NoOpTransactionScope struct {
	itemRepo       inventory.ItemRepository
	movementRepo   inventory.MovementRepository
	orderRepo      procurement.OrderRepository
	productionRepo production.Repository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
// Unused repositories may be nil.
func NewNoOpTransactionScope(
	itemRepo inventory.ItemRepository,
	movementRepo inventory.MovementRepository,
	orderRepo procurement.OrderRepository,
	productionRepo production.Repository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:       itemRepo,
		movementRepo:   movementRepo,
		orderRepo:      orderRepo,
		productionRepo: productionRepo,
	}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the inventory item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.ItemRepository { return s.itemRepo }

// MovementRepo returns the stock movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.MovementRepository { return s.movementRepo }

// OrderRepo returns the procurement order repository
func (s *NoOpTransactionScope) OrderRepo() procurement.OrderRepository { return s.orderRepo }

// ProductionRepo returns the production repository
func (s *NoOpTransactionScope) ProductionRepo() production.Repository { return s.productionRepo }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
