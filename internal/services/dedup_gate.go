package services

import (
	"context"
	"fmt"
)

// RecordLookup answers whether a device call id is already stored locally.
type RecordLookup interface {
	ExistsByDeviceCallID(ctx context.Context, deviceCallID string) (bool, error)
}

// DedupGate keeps already-captured registry rows out of the local store.
// Candidates without a device call id are always admitted.
type DedupGate struct {
	store RecordLookup
}

func NewDedupGate(store RecordLookup) *DedupGate {
	return &DedupGate{store: store}
}

// Admit reports whether the candidate should be stored.
func (g *DedupGate) Admit(ctx context.Context, c CallCandidate) (bool, error) {
	if c.DeviceCallID == nil {
		return true, nil
	}
	exists, err := g.store.ExistsByDeviceCallID(ctx, *c.DeviceCallID)
	if err != nil {
		return false, fmt.Errorf("dedup lookup %s: %w", *c.DeviceCallID, err)
	}
	return !exists, nil
}
