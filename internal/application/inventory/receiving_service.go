package inventory

import (
	"context"
	"fmt"

	"github.com/provisio/backend/internal/domain/inventory"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceivingService accepts new stock into a warehouse: it creates a lot,
// increases the balance and records a history entry, pricing the lot by
// proportional expense allocation over the whole receiving event.
type ReceivingService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewReceivingService creates a new ReceivingService
func NewReceivingService(scope TransactionScope) *ReceivingService {
	return &ReceivingService{scope: scope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReceivingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Receive brings one receipt line into stock. A quantity of zero or less is
// a no-op: no balance, batch or history write happens and a zero-value
// result is returned. An unknown warehouse or component aborts the line
// with no partial write.
func (s *ReceivingService) Receive(ctx context.Context, req ReceiveRequest) (*BatchResult, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return &BatchResult{}, nil
	}

	lines := req.EventLines
	if len(lines) == 0 {
		lines = []inventory.ReceiptLine{req.line()}
	}
	unitCost := inventory.UnitCostFor(req.line(), lines, req.TotalExpenses)

	var result *BatchResult
	var received *inventory.StockReceivedEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		exists, err := repos.Warehouses().ExistsByID(ctx, req.WarehouseID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}

		component, err := repos.Components().FindByID(ctx, req.ComponentID, req.Kind)
		if err != nil {
			return err
		}

		balance, err := repos.Balances().GetOrCreate(ctx, req.WarehouseID, req.ComponentID, req.Kind)
		if err != nil {
			return err
		}
		before := balance.QuantityOnHand

		expiration := component.ExpirationFrom(req.ManufacturingDate)
		batch, err := inventory.NewBatch(balance.ID, req.Quantity, unitCost,
			req.ImportDate, req.ManufacturingDate, expiration, req.SourceRef)
		if err != nil {
			return err
		}
		if err := repos.Batches().Save(ctx, batch); err != nil {
			return err
		}

		balance.Adjust(req.Quantity)
		if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
			return err
		}

		movement, err := inventory.NewStockMovement(balance,
			inventory.MovementIncrease, inventory.ReasonReceipt,
			req.Quantity, before, balance.QuantityOnHand, req.ImportDate)
		if err != nil {
			return err
		}
		movement.WithNote(fmt.Sprintf("Received %s %s at %s", req.Quantity, component.Unit, unitCost))
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		received = inventory.NewStockReceivedEvent(balance, batch)
		result = &BatchResult{
			BatchID:        batch.ID,
			UnitCost:       unitCost,
			ExpirationDate: expiration,
			Quantity:       req.Quantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, received)
	return result, nil
}

func (s *ReceivingService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil || event == nil {
		return
	}
	// Best-effort: event delivery failures are the bus's concern
	_ = s.eventPublisher.Publish(ctx, event)
}
