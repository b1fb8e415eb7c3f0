package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/suryakv/ecommerce-backend/internal/cart"
	"github.com/suryakv/ecommerce-backend/internal/inventory"
	"github.com/suryakv/ecommerce-backend/internal/notifications"
	"github.com/suryakv/ecommerce-backend/internal/orders"
	"github.com/suryakv/ecommerce-backend/pkg/db/models"
	pkgerrors "github.com/suryakv/ecommerce-backend/pkg/errors"
	"github.com/suryakv/ecommerce-backend/pkg/logger"
	"github.com/suryakv/ecommerce-backend/pkg/metrics"
	"gorm.io/gorm"
)

// State tracks checkout progress. Every run ends in StateDone or StateAborted.
type State string

const (
	StateStart      State = "start"
	StateValidating State = "validating"
	StateReserving  State = "reserving"
	StateCommitting State = "committing"
	StateDone       State = "done"
	StateAborted    State = "aborted"
)

// Result is returned to the caller after a committed checkout.
type Result struct {
	OrderID int64           `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context)
}

type confirmationDispatcher interface {
	DispatchOrderConfirmation(ctx context.Context, event notifications.OrderConfirmation)
}

// Service executes the order placement flow.
type Service interface {
	PlaceOrder(ctx context.Context, userEmail string) (*Result, error)
}

type service struct {
	tx         txRunner
	cartRepo   *cart.Repository
	inventory  *inventory.Store
	orderRepo  *orders.Repository
	cache      cacheInvalidator
	dispatcher confirmationDispatcher
	metrics    *metrics.CheckoutMetrics
	logg       *logger.Logger
}

// NewService constructs the checkout service. metrics may be nil.
func NewService(
	tx txRunner,
	cartRepo *cart.Repository,
	inventoryStore *inventory.Store,
	orderRepo *orders.Repository,
	cache cacheInvalidator,
	dispatcher confirmationDispatcher,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if inventoryStore == nil {
		return nil, fmt.Errorf("inventory store required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache invalidator required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("notification dispatcher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:         tx,
		cartRepo:   cartRepo,
		inventory:  inventoryStore,
		orderRepo:  orderRepo,
		cache:      cache,
		dispatcher: dispatcher,
		metrics:    checkoutMetrics,
		logg:       logg,
	}, nil
}

// PlaceOrder converts the user's cart into an order. Stock decrements, order
// creation, and cart clearing share one transaction; any abort rolls back all
// of it. Cache invalidation and the confirmation event run after commit and
// cannot fail the checkout.
func (s *service) PlaceOrder(ctx context.Context, userEmail string) (*Result, error) {
	started := time.Now()
	state := StateStart

	result, err := s.placeOrder(ctx, userEmail, &state)
	if err != nil {
		state = StateAborted
		s.metrics.Observe(outcomeFor(err), time.Since(started))
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"user_email": userEmail,
			"state":      string(state),
		}), "checkout aborted")
		return nil, err
	}

	state = StateDone
	s.metrics.Observe(metrics.OutcomeSuccess, time.Since(started))

	// Post-commit side effects. The order is durable at this point.
	s.cache.Invalidate(ctx)
	s.dispatcher.DispatchOrderConfirmation(ctx, notifications.OrderConfirmation{
		OrderID:   result.OrderID,
		UserEmail: userEmail,
		Total:     result.Total,
		CreatedAt: time.Now().UTC(),
	})

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_email": userEmail,
		"order_id":   result.OrderID,
		"total":      result.Total.StringFixed(2),
	}), "checkout committed")

	return result, nil
}

func (s *service) placeOrder(ctx context.Context, userEmail string, state *State) (*Result, error) {
	*state = StateValidating
	lines, err := s.cartRepo.ListForCheckout(ctx, userEmail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart for checkout")
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	var result *Result
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		*state = StateReserving
		items, total, err := s.reserve(ctx, tx, lines)
		if err != nil {
			return err
		}

		*state = StateCommitting
		order := &models.Order{
			UserEmail: userEmail,
			Total:     total,
			Items:     items,
		}
		created, err := s.orderRepo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := s.cartRepo.WithTx(tx).ClearForUser(ctx, userEmail); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		result = &Result{OrderID: created.ID, Total: created.Total}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout transaction")
		}
		return nil, err
	}
	return result, nil
}

// reserve walks the cart lines in ascending product ID, decrementing stock
// with the version read just before. Lines repeating a product are independent
// decrements; the second one sees the version the first one produced.
func (s *service) reserve(ctx context.Context, tx *gorm.DB, lines []models.CartItem) ([]models.OrderItem, decimal.Decimal, error) {
	store := s.inventory.WithTx(tx)
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero

	for _, line := range lines {
		product, err := store.FindByID(ctx, line.ProductID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decimal.Zero, outOfStockError(line.ProductID)
		}
		if err != nil {
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read product for reservation")
		}

		res, err := store.AttemptDecrement(ctx, product.ID, product.Version, line.Quantity)
		if err != nil {
			return nil, decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
		}
		switch res.Status {
		case inventory.StatusInsufficientStock:
			return nil, decimal.Zero, outOfStockError(line.ProductID)
		case inventory.StatusVersionConflict:
			return nil, decimal.Zero, pkgerrors.New(pkgerrors.CodeConcurrency, "inventory changed during checkout, retry the request")
		}

		linePrice := product.Price
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Quantity:  line.Quantity,
			Price:     linePrice,
		})
		total = total.Add(linePrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return items, total, nil
}

func outOfStockError(productID int64) error {
	return pkgerrors.New(pkgerrors.CodeOutOfStock, fmt.Sprintf("insufficient stock for product %d", productID)).
		WithDetails(map[string]any{"product_id": productID})
}

func outcomeFor(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return metrics.OutcomeFailure
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return metrics.OutcomeEmptyCart
	case pkgerrors.CodeOutOfStock:
		return metrics.OutcomeOutOfStock
	case pkgerrors.CodeConcurrency:
		return metrics.OutcomeConflict
	default:
		return metrics.OutcomeFailure
	}
}
