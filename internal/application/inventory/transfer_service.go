package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/inventory"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TransferService moves stock of one component between warehouses. Lots keep
// their identity across the move: each depleted slice lands in a destination
// lot carrying the same expiration date, merged rather than duplicated.
type TransferService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(scope TransactionScope) *TransferService {
	return &TransferService{scope: scope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Transfer moves a quantity of a component from one warehouse to another.
// A quantity of zero or less is a silent no-op. The source balance must
// already exist; the destination balance is created on demand. When the
// source lots cannot cover the quantity the transfer is rejected with
// ErrInsufficientStock and nothing is written.
func (s *TransferService) Transfer(ctx context.Context, req TransferRequest) error {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	var transferred *inventory.StockTransferredEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		source, err := repos.Balances().FindByWarehouseAndComponent(ctx,
			req.FromWarehouseID, req.ComponentID, req.Kind)
		if err != nil {
			return err
		}
		if !source.CanFulfill(req.Quantity) {
			return shared.ErrInsufficientStock
		}

		dest, err := repos.Balances().GetOrCreate(ctx,
			req.ToWarehouseID, req.ComponentID, req.Kind)
		if err != nil {
			return err
		}

		fromWarehouse, err := repos.Warehouses().FindByID(ctx, req.FromWarehouseID)
		if err != nil {
			return err
		}
		toWarehouse, err := repos.Warehouses().FindByID(ctx, req.ToWarehouseID)
		if err != nil {
			return err
		}

		lots, err := repos.Batches().FindByBalanceOrderedByExpiration(ctx, source.ID)
		if err != nil {
			return err
		}
		plan, err := inventory.DepleteFIFO(req.Quantity, lots)
		if err != nil {
			return err
		}
		if !plan.FullyFulfilled {
			return shared.ErrInsufficientStock
		}

		if err := s.moveLots(ctx, repos, source, dest, lots, plan, req); err != nil {
			return err
		}

		beforeFrom := source.QuantityOnHand
		beforeTo := dest.QuantityOnHand
		source.Adjust(req.Quantity.Neg())
		dest.Adjust(req.Quantity)
		if err := repos.Balances().SaveWithLock(ctx, source); err != nil {
			return err
		}
		if err := repos.Balances().SaveWithLock(ctx, dest); err != nil {
			return err
		}

		out, err := inventory.NewStockMovement(source,
			inventory.MovementDecrease, inventory.ReasonTransferOut,
			req.Quantity, beforeFrom, source.QuantityOnHand, req.TransferDate)
		if err != nil {
			return err
		}
		out.WithNote(fmt.Sprintf("Transfer from %s to %s", fromWarehouse.Code, toWarehouse.Code))
		if err := repos.Movements().Create(ctx, out); err != nil {
			return err
		}

		in, err := inventory.NewStockMovement(dest,
			inventory.MovementIncrease, inventory.ReasonTransferIn,
			req.Quantity, beforeTo, dest.QuantityOnHand, req.TransferDate)
		if err != nil {
			return err
		}
		in.WithNote(fmt.Sprintf("Transfer from %s to %s", fromWarehouse.Code, toWarehouse.Code))
		if err := repos.Movements().Create(ctx, in); err != nil {
			return err
		}

		record, err := inventory.NewTransferRecord(req.ComponentID, req.Kind,
			req.FromWarehouseID, req.ToWarehouseID, req.Quantity, req.TransferDate)
		if err != nil {
			return err
		}
		if err := repos.Transfers().Create(ctx, record); err != nil {
			return err
		}

		transferred = inventory.NewStockTransferredEvent(record, source.ID)
		return nil
	})
	if err != nil {
		return err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, transferred)
	}
	return nil
}

// moveLots executes the depletion plan against the source lots and lands
// each slice in the destination lot carrying the same expiration date,
// creating one when none exists yet.
func (s *TransferService) moveLots(
	ctx context.Context,
	repos TransactionalRepositories,
	source, dest *inventory.Balance,
	lots []inventory.Batch,
	plan *inventory.DepletionResult,
	req TransferRequest,
) error {
	pointers := make([]*inventory.Batch, len(lots))
	for i := range lots {
		pointers[i] = &lots[i]
	}
	if err := inventory.ApplyDepletion(pointers, plan); err != nil {
		return err
	}

	touched := make(map[string]bool, len(plan.Slices))
	for _, slice := range plan.Slices {
		touched[slice.BatchID.String()] = true
	}
	for _, lot := range pointers {
		if !touched[lot.ID.String()] {
			continue
		}
		if err := repos.Batches().Save(ctx, lot); err != nil {
			return err
		}
	}

	for _, slice := range plan.Slices {
		target, err := repos.Batches().FindByBalanceAndExpiration(ctx, dest.ID, slice.ExpirationDate)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			target, err = inventory.NewBatch(dest.ID, slice.Deducted, slice.UnitCost,
				req.TransferDate, req.TransferDate, slice.ExpirationDate,
				transferSourceRef(req.Kind, req.FromWarehouseID.String()))
			if err != nil {
				return err
			}
		} else {
			target.Add(slice.Deducted)
		}
		if err := repos.Batches().Save(ctx, target); err != nil {
			return err
		}
	}
	return nil
}

func transferSourceRef(kind catalog.ComponentKind, fromWarehouse string) string {
	return fmt.Sprintf("transfer:%s:%s", kind, fromWarehouse)
}
