package engine

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/piwi3910/tilepack/internal/model"
)

// Order is a named strategy for ordering items before packing. Compare
// follows the cmp.Compare convention: negative when a goes first.
type Order struct {
	Name    string
	Compare func(a, b *model.Item) int
}

// byDescending orders items by key, largest first.
func byDescending(name string, key func(model.Size) int) Order {
	return Order{
		Name: name,
		Compare: func(a, b *model.Item) int {
			return cmp.Compare(key(b.Submitted()), key(a.Submitted()))
		},
	}
}

// Reversed returns the ordering that places items in the opposite order.
func (o Order) Reversed() Order {
	compare := o.Compare
	return Order{
		Name: "-" + o.Name,
		Compare: func(a, b *model.Item) int {
			return compare(b, a)
		},
	}
}

func diffSides(s model.Size) int {
	d := s.Width - s.Height
	if d < 0 {
		return -d
	}
	return d
}

var orderKeys = map[string]func(model.Size) int{
	"area":         model.Size.Area,
	"perimeter":    model.Size.Perimeter,
	"max-side":     model.Size.MaxSide,
	"min-side":     model.Size.MinSide,
	"width":        func(s model.Size) int { return s.Width },
	"height":       func(s model.Size) int { return s.Height },
	"pathological": model.Size.PathologicalMult,
	"diff":         diffSides,
}

// LookupOrder returns the registered ordering called name. A leading "-"
// reverses it, so "-area" places the smallest items first.
func LookupOrder(name string) (Order, error) {
	base, reversed := strings.CutPrefix(name, "-")
	key, ok := orderKeys[base]
	if !ok {
		return Order{}, fmt.Errorf("%w: %q", ErrUnknownOrder, name)
	}
	o := byDescending(base, key)
	if reversed {
		o = o.Reversed()
	}
	return o, nil
}

// ResolveOrders looks up every name in turn.
func ResolveOrders(names []string) ([]Order, error) {
	if len(names) == 0 {
		return nil, ErrNoOrders
	}
	orders := make([]Order, 0, len(names))
	for _, n := range names {
		o, err := LookupOrder(strings.TrimSpace(n))
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// DefaultOrders returns the six orderings tried when the caller supplies none.
func DefaultOrders() []Order {
	orders, _ := ResolveOrders(model.DefaultOrderNames)
	return orders
}

// OrderNames lists the registered base names in alphabetical order.
func OrderNames() []string {
	names := make([]string, 0, len(orderKeys))
	for n := range orderKeys {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// fixedOrder replays a given permutation of items.
func fixedOrder(name string, sequence []*model.Item) Order {
	rank := make(map[*model.Item]int, len(sequence))
	for i, it := range sequence {
		rank[it] = i
	}
	return Order{
		Name: name,
		Compare: func(a, b *model.Item) int {
			return cmp.Compare(rank[a], rank[b])
		},
	}
}

// sortInto copies items into buf and stable-sorts it with o.
func sortInto(buf []*model.Item, items []*model.Item, o Order) []*model.Item {
	buf = append(buf[:0], items...)
	slices.SortStableFunc(buf, o.Compare)
	return buf
}
