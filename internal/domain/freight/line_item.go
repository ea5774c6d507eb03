package freight

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

// LineItem carries the per-product stock counters for one product line of a
// shipment. The three counters partition the units of the line: a unit is
// either waiting at the origin (InStock), on a vehicle (InTransit) or handed
// over (Delivered). Manifest operations move units between counters; only an
// explicit adjustment changes their sum.
type LineItem struct {
	ItemType  string          `json:"item_type"`
	InStock   int             `json:"in_stock"`
	InTransit int             `json:"in_transit"`
	Delivered int             `json:"delivered"`
	Amount    decimal.Decimal `json:"amount"`
	ReturnLeg bool            `json:"return_leg,omitempty"` // flagged for a second/return leg
}

// TotalUnits returns the conserved unit count of the line
func (li *LineItem) TotalUnits() int {
	return li.InStock + li.InTransit + li.Delivered
}

// LineItems is a slice of LineItem stored as JSONB on the shipment row
type LineItems []LineItem

// Value implements driver.Valuer for JSONB storage
func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for JSONB retrieval
func (l *LineItems) Scan(value interface{}) error {
	if value == nil {
		*l = LineItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan LineItems: unsupported type")
	}

	if len(bytes) == 0 {
		*l = LineItems{}
		return nil
	}

	return json.Unmarshal(bytes, l)
}

// indicesOfType returns the positions of line items carrying the given
// product type, primary (first declared) position first.
func (l LineItems) indicesOfType(itemType string) []int {
	var idx []int
	for i := range l {
		if l[i].ItemType == itemType {
			idx = append(idx, i)
		}
	}
	return idx
}

// HasReturnLeg returns true if any line item is flagged for a return leg
func (l LineItems) HasReturnLeg() bool {
	for i := range l {
		if l[i].ReturnLeg {
			return true
		}
	}
	return false
}

// TotalUnits sums the conserved unit counts across all line items
func (l LineItems) TotalUnits() int {
	total := 0
	for i := range l {
		total += l[i].TotalUnits()
	}
	return total
}

// UnitsInTransit sums the in-transit counters across all line items
func (l LineItems) UnitsInTransit() int {
	total := 0
	for i := range l {
		total += l[i].InTransit
	}
	return total
}

// moveToTransit drains up to qty units of the given type from InStock into
// InTransit and returns the quantity actually moved. The primary line item
// (first declared of the type) is drained first; any remainder is drawn from
// the other lines of the same type in descending InStock order. A request
// beyond the available stock moves what is there: short historical data is
// tolerated, not rejected.
func (l LineItems) moveToTransit(itemType string, qty int) int {
	idx := l.indicesOfType(itemType)
	if len(idx) == 0 || qty <= 0 {
		return 0
	}

	moved := 0
	take := func(i int) {
		n := min(qty-moved, l[i].InStock)
		l[i].InStock -= n
		l[i].InTransit += n
		moved += n
	}

	take(idx[0])
	rest := append([]int(nil), idx[1:]...)
	sort.SliceStable(rest, func(a, b int) bool {
		return l[rest[a]].InStock > l[rest[b]].InStock
	})
	for _, i := range rest {
		if moved >= qty {
			break
		}
		take(i)
	}
	return moved
}

// deliver moves up to qty units of the given type from InTransit to
// Delivered, largest in-transit balance first, and returns the moved count.
func (l LineItems) deliver(itemType string, qty int) int {
	return l.drainTransit(itemType, qty, func(li *LineItem, n int) {
		li.Delivered += n
	})
}

// returnToStock reverses moveToTransit, putting up to qty units of the given
// type back from InTransit into InStock, largest in-transit balance first.
func (l LineItems) returnToStock(itemType string, qty int) int {
	return l.drainTransit(itemType, qty, func(li *LineItem, n int) {
		li.InStock += n
	})
}

func (l LineItems) drainTransit(itemType string, qty int, credit func(*LineItem, int)) int {
	idx := l.indicesOfType(itemType)
	if len(idx) == 0 || qty <= 0 {
		return 0
	}

	sort.SliceStable(idx, func(a, b int) bool {
		return l[idx[a]].InTransit > l[idx[b]].InTransit
	})

	moved := 0
	for _, i := range idx {
		if moved >= qty {
			break
		}
		n := min(qty-moved, l[i].InTransit)
		l[i].InTransit -= n
		credit(&l[i], n)
		moved += n
	}
	return moved
}
