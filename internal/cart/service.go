package cart

import (
	"context"
	"log"
)

// Service implements the cart workflow: quantity changes with the
// single-restaurant conflict gate, optimistic mirror updates with rollback,
// replace-cart conflict resolution and store refresh.
type Service struct {
	repo   Repository
	mirror Mirror
}

// ServiceInterface is implemented by *Service and consumed by the order
// workflow for snapshotting and clearing the cart.
type ServiceInterface interface {
	Get(ctx context.Context, userKey string) ([]Line, error)
	Refresh(ctx context.Context, userKey string) ([]Line, error)
	ChangeQuantity(ctx context.Context, userKey, restaurantID, menuItemID string, delta int) (Snapshot, error)
	ReplaceCart(ctx context.Context, userKey, restaurantID, menuItemID string, qty int) ([]Line, error)
	Clear(ctx context.Context, userKey string) error
}

func NewService(repo Repository, mirror Mirror) *Service {
	return &Service{repo: repo, mirror: mirror}
}

// Get returns the enriched lines from the authoritative store.
func (s *Service) Get(ctx context.Context, userKey string) ([]Line, error) {
	return s.repo.GetCart(userKey)
}

// Refresh re-reads the store and replaces the mirror snapshot wholesale.
// It runs after conflict resolution and whenever the mirror has expired,
// which is what repairs drift from racing writes.
func (s *Service) Refresh(ctx context.Context, userKey string) ([]Line, error) {
	lines, err := s.repo.GetCart(userKey)
	if err != nil {
		return nil, err
	}
	if err := s.mirror.Store(ctx, userKey, snapshotFromLines(lines)); err != nil {
		log.Printf("warning: could not store cart mirror for %s: %v", userKey, err)
	}
	return lines, nil
}

// ChangeQuantity applies a user +/- intent. The new quantity is clamped at
// zero; zero deletes the line. A net addition against a cart holding a
// different restaurant returns a *ConflictError and mutates nothing;
// decrement-only changes are never blocked. The mirror is written before
// the store call and rolled back if the store call fails.
func (s *Service) ChangeQuantity(ctx context.Context, userKey, restaurantID, menuItemID string, delta int) (Snapshot, error) {
	if userKey == "" || restaurantID == "" || menuItemID == "" {
		return Snapshot{}, ErrInvalidItem
	}

	snap, err := s.snapshot(ctx, userKey)
	if err != nil {
		return Snapshot{}, err
	}

	q := snap.quantity(menuItemID)
	newQ := q + delta
	if newQ < 0 {
		newQ = 0
	}

	if newQ > q && snap.RestaurantID != "" && snap.RestaurantID != restaurantID {
		return Snapshot{}, &ConflictError{
			CartRestaurantID:  snap.RestaurantID,
			PendingMenuItemID: menuItemID,
			PendingQuantity:   newQ,
		}
	}
	if newQ == q {
		return snap, nil
	}

	updated := copySnapshot(snap)
	if newQ == 0 {
		delete(updated.Quantities, menuItemID)
		if len(updated.Quantities) == 0 {
			updated.RestaurantID = ""
		}
	} else {
		updated.Quantities[menuItemID] = newQ
		if updated.RestaurantID == "" {
			updated.RestaurantID = restaurantID
		}
	}
	if err := s.mirror.Store(ctx, userKey, updated); err != nil {
		log.Printf("warning: could not store cart mirror for %s: %v", userKey, err)
	}

	if newQ == 0 {
		err = s.repo.DeleteLine(userKey, menuItemID)
	} else {
		err = s.repo.UpsertLine(userKey, menuItemID, restaurantID, newQ)
	}
	if err != nil {
		// the store write was the first mutation of this sequence, so
		// the optimistic mirror state is rolled back
		if rbErr := s.mirror.Store(ctx, userKey, snap); rbErr != nil {
			log.Printf("warning: could not roll back cart mirror for %s: %v", userKey, rbErr)
		}
		return Snapshot{}, err
	}
	return updated, nil
}

// ReplaceCart resolves a restaurant conflict by dropping the whole cart and
// inserting the pending line. If the insert fails after a successful clear
// the cart is left empty; there is no multi-statement transaction to hide
// behind, so the partial outcome stands and is repaired by the user.
func (s *Service) ReplaceCart(ctx context.Context, userKey, restaurantID, menuItemID string, qty int) ([]Line, error) {
	if userKey == "" || restaurantID == "" || menuItemID == "" {
		return nil, ErrInvalidItem
	}
	if qty < 1 {
		return nil, ErrQuantity
	}

	if err := s.repo.ClearCart(userKey); err != nil {
		return nil, err
	}
	if err := s.mirror.Invalidate(ctx, userKey); err != nil {
		log.Printf("warning: could not invalidate cart mirror for %s: %v", userKey, err)
	}
	if err := s.repo.UpsertLine(userKey, menuItemID, restaurantID, qty); err != nil {
		return nil, err
	}
	return s.Refresh(ctx, userKey)
}

// Clear removes every line of the user's cart and drops the mirror entry.
func (s *Service) Clear(ctx context.Context, userKey string) error {
	if err := s.repo.ClearCart(userKey); err != nil {
		return err
	}
	if err := s.mirror.Invalidate(ctx, userKey); err != nil {
		log.Printf("warning: could not invalidate cart mirror for %s: %v", userKey, err)
	}
	return nil
}

// snapshot serves reads from the mirror and falls back to the store when
// the entry is missing or expired.
func (s *Service) snapshot(ctx context.Context, userKey string) (Snapshot, error) {
	snap, ok, err := s.mirror.Load(ctx, userKey)
	if err != nil {
		log.Printf("warning: cart mirror read failed for %s: %v", userKey, err)
		ok = false
	}
	if ok {
		return snap, nil
	}

	lines, err := s.repo.GetCart(userKey)
	if err != nil {
		return Snapshot{}, err
	}
	snap = snapshotFromLines(lines)
	if err := s.mirror.Store(ctx, userKey, snap); err != nil {
		log.Printf("warning: could not store cart mirror for %s: %v", userKey, err)
	}
	return snap, nil
}
