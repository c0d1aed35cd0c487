package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/provisio/backend/internal/domain/catalog"
	"github.com/provisio/backend/internal/domain/inventory"
	"github.com/provisio/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ManufacturingService produces stock of a product by walking its recipe
// graph depth-first, consuming ingredients and nested products from their
// default warehouses, then landing the output as a new lot priced at the
// weighted cost of everything consumed.
//
// Cycle detection is path-local: a node is marked while it is on the current
// DFS path and unmarked on exit, so a diamond-shaped graph (two branches
// sharing a component) is legal while a true cycle is rejected with
// ErrCyclicRecipe before that node mutates anything.
type ManufacturingService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewManufacturingService creates a new ManufacturingService
func NewManufacturingService(scope TransactionScope) *ManufacturingService {
	return &ManufacturingService{scope: scope}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ManufacturingService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Manufacture produces req.Quantity units of the product, consuming the
// extra components of the request and the product's recipe graph. Every
// consumed node and the produced output get a history entry; the whole run
// commits or rolls back as one transaction.
func (s *ManufacturingService) Manufacture(ctx context.Context, req ManufactureRequest) (*ManufactureResult, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_DATA", "Manufacture quantity must be positive")
	}

	var result *ManufactureResult
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Components().FindByID(ctx, req.ProductID, catalog.ComponentKindProduct)
		if err != nil {
			return err
		}
		exists, err := repos.Warehouses().ExistsByID(ctx, req.WarehouseID)
		if err != nil {
			return err
		}
		if !exists {
			return shared.ErrNotFound
		}

		run := newConsumptionRun(repos, req.ManufacturingDate)
		// The root product is on the path from the start: a recipe that
		// reaches back to it is a cycle.
		run.visitedProducts[product.ID] = true

		for _, extra := range req.ExtraComponents {
			required := extra.QuantityPerUnit.Mul(req.Quantity)
			if err := run.consumeByKind(ctx, extra.ComponentID, extra.Kind, required); err != nil {
				return err
			}
		}

		recipe, err := repos.Recipes().FindByProduct(ctx, product.ID)
		if err != nil {
			return err
		}
		if err := recipe.Validate(); err != nil {
			return err
		}
		for i := range recipe.Lines {
			line := &recipe.Lines[i]
			childID, kind := line.ChildID()
			required := line.QuantityPerUnit.Mul(req.Quantity)
			if err := run.consumeByKind(ctx, childID, kind, required); err != nil {
				return err
			}
		}

		output, outputEvent, err := s.produceOutput(ctx, repos, product, req, run.totalCost)
		if err != nil {
			return err
		}

		result = output
		events = append(run.events, outputEvent)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	return result, nil
}

// produceOutput lands the manufactured quantity in the target warehouse:
// balance increase, new lot, history entry. The lot's unit cost is the total
// consumed cost spread over the output quantity, rounded half-even.
func (s *ManufacturingService) produceOutput(
	ctx context.Context,
	repos TransactionalRepositories,
	product *catalog.Component,
	req ManufactureRequest,
	totalCost decimal.Decimal,
) (*ManufactureResult, shared.DomainEvent, error) {
	balance, err := repos.Balances().GetOrCreate(ctx, req.WarehouseID, product.ID, catalog.ComponentKindProduct)
	if err != nil {
		return nil, nil, err
	}
	before := balance.QuantityOnHand

	var unitCost decimal.Decimal
	if totalCost.GreaterThan(decimal.Zero) {
		unitCost = totalCost.Div(req.Quantity).RoundBank(inventory.CostScale)
	}

	expiration := product.ExpirationFrom(req.ManufacturingDate)
	batch, err := inventory.NewBatch(balance.ID, req.Quantity, unitCost,
		req.ManufacturingDate, req.ManufacturingDate, expiration,
		fmt.Sprintf("manufacture:%s", product.Code))
	if err != nil {
		return nil, nil, err
	}
	if err := repos.Batches().Save(ctx, batch); err != nil {
		return nil, nil, err
	}

	balance.Adjust(req.Quantity)
	if err := repos.Balances().SaveWithLock(ctx, balance); err != nil {
		return nil, nil, err
	}

	movement, err := inventory.NewStockMovement(balance,
		inventory.MovementIncrease, inventory.ReasonManufacture,
		req.Quantity, before, balance.QuantityOnHand, req.ManufacturingDate)
	if err != nil {
		return nil, nil, err
	}
	movement.WithNote(fmt.Sprintf("Manufactured %s %s of %s", req.Quantity, product.Unit, product.Code))
	if err := repos.Movements().Create(ctx, movement); err != nil {
		return nil, nil, err
	}

	return &ManufactureResult{
		BatchID:        batch.ID,
		ExpirationDate: expiration,
		UnitCost:       unitCost,
	}, inventory.NewProductManufacturedEvent(balance, batch), nil
}

// consumptionRun carries the state of one manufacture run's DFS: the
// path-local visited sets, the accumulated cost of everything consumed so
// far, and the consumption events to publish after commit.
type consumptionRun struct {
	repos              TransactionalRepositories
	occurredAt         time.Time
	visitedIngredients map[uuid.UUID]bool
	visitedProducts    map[uuid.UUID]bool
	totalCost          decimal.Decimal
	events             []shared.DomainEvent
}

func newConsumptionRun(repos TransactionalRepositories, occurredAt time.Time) *consumptionRun {
	return &consumptionRun{
		repos:              repos,
		occurredAt:         occurredAt,
		visitedIngredients: make(map[uuid.UUID]bool),
		visitedProducts:    make(map[uuid.UUID]bool),
		totalCost:          decimal.Zero,
	}
}

// consumeByKind dispatches one graph node to the ingredient or product path
func (r *consumptionRun) consumeByKind(ctx context.Context, componentID uuid.UUID, kind catalog.ComponentKind, required decimal.Decimal) error {
	switch kind {
	case catalog.ComponentKindIngredient:
		return r.consumeIngredient(ctx, componentID, required)
	case catalog.ComponentKindProduct:
		return r.consumeProduct(ctx, componentID, required)
	}
	return shared.NewDomainError("INVALID_KIND", "Unknown component kind: "+kind.String())
}

// consumeIngredient depletes the required quantity of an ingredient from its
// default warehouse. Leaf of the DFS, never recurses.
func (r *consumptionRun) consumeIngredient(ctx context.Context, ingredientID uuid.UUID, required decimal.Decimal) error {
	if r.visitedIngredients[ingredientID] {
		return shared.ErrCyclicRecipe
	}
	r.visitedIngredients[ingredientID] = true
	defer delete(r.visitedIngredients, ingredientID)

	ingredient, err := r.repos.Components().FindByID(ctx, ingredientID, catalog.ComponentKindIngredient)
	if err != nil {
		return err
	}
	return r.depleteStock(ctx, ingredient, required)
}

// consumeProduct depletes the required quantity of a nested product and then
// recurses into that product's own recipe, multiplying quantities down the
// tree. This is the only source of real recursion depth.
func (r *consumptionRun) consumeProduct(ctx context.Context, productID uuid.UUID, required decimal.Decimal) error {
	if r.visitedProducts[productID] {
		return shared.ErrCyclicRecipe
	}
	r.visitedProducts[productID] = true
	defer delete(r.visitedProducts, productID)

	product, err := r.repos.Components().FindByID(ctx, productID, catalog.ComponentKindProduct)
	if err != nil {
		return err
	}

	recipe, err := r.repos.Recipes().FindByProduct(ctx, productID)
	if err != nil {
		return err
	}
	if err := recipe.Validate(); err != nil {
		return err
	}
	for i := range recipe.Lines {
		line := &recipe.Lines[i]
		childID, kind := line.ChildID()
		childRequired := line.QuantityPerUnit.Mul(required)
		if err := r.consumeByKind(ctx, childID, kind, childRequired); err != nil {
			return err
		}
	}

	return r.depleteStock(ctx, product, required)
}

// depleteStock removes the required quantity of one component from its
// default warehouse: FIFO over the lots, balance decrease, history entry.
// A shortfall rejects the whole run with ErrInsufficientStock.
func (r *consumptionRun) depleteStock(ctx context.Context, component *catalog.Component, required decimal.Decimal) error {
	if component.DefaultWarehouseID == nil {
		return shared.NewDomainError("INVALID_DATA",
			"Component has no default warehouse: "+component.Code)
	}

	balance, err := r.repos.Balances().GetOrCreate(ctx,
		*component.DefaultWarehouseID, component.ID, component.Kind)
	if err != nil {
		return err
	}
	if !balance.CanFulfill(required) {
		return shared.ErrInsufficientStock
	}

	lots, err := r.repos.Batches().FindByBalanceOrderedByExpiration(ctx, balance.ID)
	if err != nil {
		return err
	}
	plan, err := inventory.DepleteFIFO(required, lots)
	if err != nil {
		return err
	}
	if !plan.FullyFulfilled {
		return shared.ErrInsufficientStock
	}

	pointers := make([]*inventory.Batch, len(lots))
	for i := range lots {
		pointers[i] = &lots[i]
	}
	if err := inventory.ApplyDepletion(pointers, plan); err != nil {
		return err
	}
	for _, slice := range plan.Slices {
		for _, lot := range pointers {
			if lot.ID == slice.BatchID {
				if err := r.repos.Batches().Save(ctx, lot); err != nil {
					return err
				}
				break
			}
		}
	}

	before := balance.QuantityOnHand
	balance.Adjust(required.Neg())
	if err := r.repos.Balances().SaveWithLock(ctx, balance); err != nil {
		return err
	}

	movement, err := inventory.NewStockMovement(balance,
		inventory.MovementDecrease, inventory.ReasonConsumption,
		required, before, balance.QuantityOnHand, r.occurredAt)
	if err != nil {
		return err
	}
	movement.WithNote(fmt.Sprintf("Consumed %s %s of %s", required, component.Unit, component.Code))
	if err := r.repos.Movements().Create(ctx, movement); err != nil {
		return err
	}

	r.totalCost = r.totalCost.Add(plan.TotalCost)
	r.events = append(r.events, inventory.NewStockConsumedEvent(balance, required))
	return nil
}
