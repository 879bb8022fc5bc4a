package application

import (
	"sort"

	"github.com/linskybing/formbuilder-go/internal/apperr"
	"github.com/linskybing/formbuilder-go/internal/domain/form"
)

// planOrder checks that orders covers exactly the current children and returns
// their ids sorted by the requested position. Nothing is written here, so a
// rejected plan leaves the store untouched.
func planOrder(op, what string, current []uint, orders []form.PositionUpdate) ([]uint, error) {
	if len(orders) != len(current) {
		return nil, apperr.Validationf(op, "expected positions for all %d %ss, got %d", len(current), what, len(orders))
	}

	known := make(map[uint]struct{}, len(current))
	for _, id := range current {
		known[id] = struct{}{}
	}

	seenIDs := make(map[uint]struct{}, len(orders))
	seenPositions := make(map[int]struct{}, len(orders))
	for _, o := range orders {
		if _, ok := known[o.ID]; !ok {
			return nil, apperr.Validationf(op, "%s %d is not part of this set", what, o.ID)
		}
		if _, dup := seenIDs[o.ID]; dup {
			return nil, apperr.Validationf(op, "%s %d listed more than once", what, o.ID)
		}
		if o.Position < 0 {
			return nil, apperr.Validationf(op, "position must not be negative")
		}
		if _, dup := seenPositions[o.Position]; dup {
			return nil, apperr.Validationf(op, "position %d assigned more than once", o.Position)
		}
		seenIDs[o.ID] = struct{}{}
		seenPositions[o.Position] = struct{}{}
	}

	sorted := make([]form.PositionUpdate, len(orders))
	copy(sorted, orders)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	ids := make([]uint, len(sorted))
	for i, o := range sorted {
		ids[i] = o.ID
	}
	return ids, nil
}

// applyOrder parks every sibling and then writes positions 0..n-1 in ids order.
func applyOrder(park func() error, set func(id uint, position int) error, ids []uint) error {
	if err := park(); err != nil {
		return err
	}
	for i, id := range ids {
		if err := set(id, i); err != nil {
			return err
		}
	}
	return nil
}
