package order

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MikeMC777/comercio-api/internal/auth"
	"github.com/MikeMC777/comercio-api/internal/product"
)

// ProductCatalog resolves products for price snapshots. Absence is
// reported as product.ErrNotFound.
type ProductCatalog interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// UserDirectory answers whether an owner id exists.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// InitialLine is an optional product line supplied at order creation.
type InitialLine struct {
	ProductID string
	Quantity  int
	// UnitPrice overrides the catalog price when set.
	UnitPrice *decimal.Decimal
}

// Service enforces the lifecycle rules: editability by status, merge of
// duplicate lines, and total recomputation after every mutation. Each
// mutating operation runs inside one transaction with the order header
// locked, so total == Σ subtotals holds under concurrent callers.
type Service struct {
	repo    Repository
	catalog ProductCatalog
	users   UserDirectory
	policy  auth.Policy
}

func NewService(repo Repository, catalog ProductCatalog, users UserDirectory, policy auth.Policy) *Service {
	return &Service{repo: repo, catalog: catalog, users: users, policy: policy}
}

// CreateOrder creates a pending order with total 0 and, if initial lines
// are given, adds them with one recomputation at the end. Lines whose
// product cannot be resolved are skipped.
func (s *Service) CreateOrder(ctx context.Context, ownerID, shippingAddress, notes string, lines []InitialLine) (string, error) {
	if ownerID == "" || strings.TrimSpace(shippingAddress) == "" {
		return "", validationf("owner_id and shipping_address are required")
	}
	for _, ln := range lines {
		if ln.Quantity < 1 {
			return "", validationf("quantity must be >= 1")
		}
	}
	ok, err := s.users.Exists(ctx, ownerID)
	if err != nil {
		return "", persistence("owner lookup", err)
	}
	if !ok {
		return "", validationf("owner %s does not exist", ownerID)
	}

	id := uuid.NewString()
	err = s.repo.InTx(ctx, func(tx Repository) error {
		o := &Order{
			ID:              id,
			OwnerID:         ownerID,
			Status:          StatusPending,
			ShippingAddress: shippingAddress,
			Notes:           notes,
			Total:           decimal.Zero,
		}
		if err := tx.Create(ctx, o); err != nil {
			return persistence("create order", err)
		}
		added := false
		for _, ln := range lines {
			p, err := s.catalog.GetByID(ctx, ln.ProductID)
			if errors.Is(err, product.ErrNotFound) {
				continue
			}
			if err != nil {
				return persistence("resolve product", err)
			}
			price := p.Price
			if ln.UnitPrice != nil {
				price = *ln.UnitPrice
			}
			it := &Item{
				ID:        uuid.NewString(),
				OrderID:   id,
				ProductID: ln.ProductID,
				Quantity:  ln.Quantity,
				UnitPrice: price,
			}
			if err := tx.CreateItem(ctx, it); err != nil {
				return persistence("create line item", err)
			}
			added = true
		}
		if added {
			if err := tx.RecomputeTotal(ctx, id); err != nil {
				return persistence("recompute total", err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetOrder returns the order with its line items. Non-admin callers only
// see their own orders.
func (s *Service) GetOrder(ctx context.Context, id string, caller auth.Identity) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, persistence("load order", err)
	}
	if o == nil {
		return nil, ErrNotFound
	}
	if !s.policy.SeesAllOrders(caller) && o.OwnerID != caller.ID {
		return nil, ErrForbidden
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, persistence("load line items", err)
	}
	o.Items = items
	return o, nil
}

// ListOrders returns a page of orders. For non-admin callers the owner
// filter is forced to the caller's id, whatever was requested.
func (s *Service) ListOrders(ctx context.Context, q ListQuery, caller auth.Identity) ([]Order, Page, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 10
	}
	if !s.policy.SeesAllOrders(caller) {
		q.OwnerID = caller.ID
	}
	orders, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, Page{}, persistence("list orders", err)
	}
	pages := total / q.Limit
	if total%q.Limit != 0 {
		pages++
	}
	return orders, Page{Page: q.Page, Limit: q.Limit, Total: total, TotalPages: pages}, nil
}

// ListItems returns the order's line items, under the same ownership rule
// as GetOrder.
func (s *Service) ListItems(ctx context.Context, orderID string, caller auth.Identity) ([]Item, error) {
	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, persistence("load order", err)
	}
	if o == nil {
		return nil, ErrNotFound
	}
	if !s.policy.SeesAllOrders(caller) && o.OwnerID != caller.ID {
		return nil, ErrForbidden
	}
	items, err := s.repo.ListItems(ctx, orderID)
	if err != nil {
		return nil, persistence("load line items", err)
	}
	return items, nil
}

// UpdateFields edits the header's shipping address and notes. Nil keeps
// the current value. Header edits are not gated by status; only line
// items lock once an order ships.
func (s *Service) UpdateFields(ctx context.Context, id string, shippingAddress, notes *string) error {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return persistence("load order", err)
	}
	if o == nil {
		return ErrNotFound
	}
	addr := o.ShippingAddress
	if shippingAddress != nil {
		if strings.TrimSpace(*shippingAddress) == "" {
			return validationf("shipping_address cannot be empty")
		}
		addr = *shippingAddress
	}
	nts := o.Notes
	if notes != nil {
		nts = *notes
	}
	if _, err := s.repo.Update(ctx, id, addr, nts); err != nil {
		return persistence("update order", err)
	}
	return nil
}

// ChangeStatus sets the order status to any of the five valid values.
// Transitions are not ordered; the edit lock is what protects terminal
// orders, not the transition rule.
func (s *Service) ChangeStatus(ctx context.Context, id, status string) error {
	st, ok := ParseStatus(status)
	if !ok {
		allowed := make([]string, 0, 5)
		for _, v := range Statuses() {
			allowed = append(allowed, string(v))
		}
		return validationf("invalid status %q, allowed: %s", status, strings.Join(allowed, ", "))
	}
	found, err := s.repo.UpdateStatus(ctx, id, st)
	if err != nil {
		return persistence("update status", err)
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

// AddItem adds a product to the order. A line with the same product and
// unit price absorbs the quantity instead of duplicating; merged reports
// which happened. The order total is recomputed in the same transaction.
func (s *Service) AddItem(ctx context.Context, orderID, productID string, quantity int, override *decimal.Decimal) (itemID string, merged bool, err error) {
	if quantity < 1 {
		return "", false, validationf("quantity must be >= 1")
	}
	err = s.repo.InTx(ctx, func(tx Repository) error {
		o, err := tx.GetForUpdate(ctx, orderID)
		if err != nil {
			return persistence("load order", err)
		}
		if o == nil {
			return ErrNotFound
		}
		if !o.Status.Editable() {
			return &LockedError{Status: o.Status}
		}

		p, err := s.catalog.GetByID(ctx, productID)
		if errors.Is(err, product.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return persistence("resolve product", err)
		}
		price := p.Price
		if override != nil {
			price = *override
		}

		existing, err := tx.FindItemByProductAndPrice(ctx, orderID, productID, price)
		if err != nil {
			return persistence("find line item", err)
		}
		if existing != nil {
			if _, err := tx.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+quantity); err != nil {
				return persistence("update line item", err)
			}
			itemID, merged = existing.ID, true
		} else {
			it := &Item{
				ID:        uuid.NewString(),
				OrderID:   orderID,
				ProductID: productID,
				Quantity:  quantity,
				UnitPrice: price,
			}
			if err := tx.CreateItem(ctx, it); err != nil {
				return persistence("create line item", err)
			}
			itemID = it.ID
		}
		if err := tx.RecomputeTotal(ctx, orderID); err != nil {
			return persistence("recompute total", err)
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	return itemID, merged, nil
}

// UpdateItemQuantity sets an absolute quantity on a line of the order.
func (s *Service) UpdateItemQuantity(ctx context.Context, orderID, itemID string, quantity int) error {
	return s.repo.InTx(ctx, func(tx Repository) error {
		it, err := s.editableItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		if quantity < 1 {
			return validationf("quantity must be >= 1")
		}
		if _, err := tx.UpdateItemQuantity(ctx, it.ID, quantity); err != nil {
			return persistence("update line item", err)
		}
		return persistence("recompute total", tx.RecomputeTotal(ctx, orderID))
	})
}

// AdjustItemQuantity applies a delta to a line's quantity. A result
// below 1 is rejected; removal must be explicit.
func (s *Service) AdjustItemQuantity(ctx context.Context, orderID, itemID string, delta int) error {
	return s.repo.InTx(ctx, func(tx Repository) error {
		it, err := s.editableItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		q := it.Quantity + delta
		if q < 1 {
			return validationf("resulting quantity must be >= 1")
		}
		if _, err := tx.UpdateItemQuantity(ctx, it.ID, q); err != nil {
			return persistence("update line item", err)
		}
		return persistence("recompute total", tx.RecomputeTotal(ctx, orderID))
	})
}

// RemoveItem deletes a line from the order and recomputes the total.
func (s *Service) RemoveItem(ctx context.Context, orderID, itemID string) error {
	return s.repo.InTx(ctx, func(tx Repository) error {
		it, err := s.editableItem(ctx, tx, orderID, itemID)
		if err != nil {
			return err
		}
		if _, err := tx.DeleteItem(ctx, it.ID); err != nil {
			return persistence("delete line item", err)
		}
		return persistence("recompute total", tx.RecomputeTotal(ctx, orderID))
	})
}

// DeleteOrder removes the order and all of its line items.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	return s.repo.InTx(ctx, func(tx Repository) error {
		o, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return persistence("load order", err)
		}
		if o == nil {
			return ErrNotFound
		}
		if err := tx.DeleteItemsByOrder(ctx, id); err != nil {
			return persistence("delete line items", err)
		}
		if _, err := tx.Delete(ctx, id); err != nil {
			return persistence("delete order", err)
		}
		return nil
	})
}

// editableItem loads the locked order, checks editability, and resolves
// the line, rejecting items that belong to a different order.
func (s *Service) editableItem(ctx context.Context, tx Repository, orderID, itemID string) (*Item, error) {
	o, err := tx.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, persistence("load order", err)
	}
	if o == nil {
		return nil, ErrNotFound
	}
	if !o.Status.Editable() {
		return nil, &LockedError{Status: o.Status}
	}
	it, err := tx.ItemByID(ctx, itemID)
	if err != nil {
		return nil, persistence("load line item", err)
	}
	if it == nil || it.OrderID != orderID {
		return nil, ErrItemNotFound
	}
	return it, nil
}
