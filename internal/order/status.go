package order

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

var statuses = []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered, StatusCancelled}

// ParseStatus accepts any letter case.
func ParseStatus(s string) (Status, error) {
	up := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range statuses {
		if st == up {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s Status) Valid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Effect is what a legal transition requires besides writing the new status.
type Effect int

const (
	// EffectNone writes the new status only.
	EffectNone Effect = iota
	// EffectRestoreStock gives every item's quantity back to the ledger.
	EffectRestoreStock
	// EffectNoop leaves the order untouched: it is already there.
	EffectNoop
)

var forward = map[Status]Status{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusShipped,
	StatusShipped:   StatusDelivered,
}

// Plan decides whether from → to is legal and what it implies.
//
//	PENDING → CONFIRMED → SHIPPED → DELIVERED
//	PENDING | CONFIRMED → CANCELLED (restores stock)
//	CANCELLED → CANCELLED is an idempotent no-op
//
// Everything else, including skipping a forward step or staying put, is an
// InvalidTransition.
func Plan(from, to Status) (Effect, error) {
	if !to.Valid() || !from.Valid() {
		return EffectNone, invalidTransition(from, to)
	}
	if to == StatusCancelled {
		switch from {
		case StatusCancelled:
			return EffectNoop, nil
		case StatusPending, StatusConfirmed:
			return EffectRestoreStock, nil
		default:
			return EffectNone, invalidTransition(from, to)
		}
	}
	if next, ok := forward[from]; ok && next == to {
		return EffectNone, nil
	}
	return EffectNone, invalidTransition(from, to)
}
