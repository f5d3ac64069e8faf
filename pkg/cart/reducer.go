// Package cart holds the in-progress canvass selection: a pure reducer over
// four actions plus a small state container around it.
package cart

import "strings"

// Item is one product line. Display fields are copied when the line is added.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
	Quantity    int     `json:"quantity"`
}

// State is the ordered set of lines; insertion order is display order and
// there is at most one line per product id.
type State struct {
	Items []Item `json:"items"`
}

// MaxLineQuantity caps a single line. Adds saturate at the cap and larger
// updates are clamped to it.
const MaxLineQuantity = 1_000_000

type ActionKind int

const (
	ActionAdd ActionKind = iota + 1
	ActionUpdateQuantity
	ActionRemove
	ActionClear
)

// Action is a single state transition request.
type Action struct {
	Kind     ActionKind
	Item     Item
	ID       string
	Quantity int
}

func Add(item Item, quantity int) Action {
	return Action{Kind: ActionAdd, Item: item, Quantity: quantity}
}

func UpdateQuantity(id string, quantity int) Action {
	return Action{Kind: ActionUpdateQuantity, ID: id, Quantity: quantity}
}

func Remove(id string) Action {
	return Action{Kind: ActionRemove, ID: id}
}

func Clear() Action {
	return Action{Kind: ActionClear}
}

// Reduce applies action to state and returns the next state. The input is
// never mutated. Unknown actions and out-of-range input leave the state as is
// or are clamped; Reduce has no failure outcome.
func Reduce(state State, action Action) State {
	switch action.Kind {
	case ActionAdd:
		return addItem(state, action.Item, action.Quantity)
	case ActionUpdateQuantity:
		return updateQuantity(state, action.ID, action.Quantity)
	case ActionRemove:
		return removeItem(state, action.ID)
	case ActionClear:
		return State{Items: []Item{}}
	default:
		return clone(state)
	}
}

func addItem(state State, item Item, quantity int) State {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		return clone(state)
	}
	if quantity <= 0 {
		quantity = 1
	}
	quantity = capQuantity(quantity)

	next := clone(state)
	if idx := indexOf(next.Items, id); idx >= 0 {
		cur := next.Items[idx].Quantity
		if quantity > MaxLineQuantity-cur {
			next.Items[idx].Quantity = MaxLineQuantity
		} else {
			next.Items[idx].Quantity = cur + quantity
		}
		return next
	}

	item.ID = id
	item.Quantity = quantity
	next.Items = append(next.Items, item)
	return next
}

func updateQuantity(state State, id string, quantity int) State {
	idx := indexOf(state.Items, id)
	if idx < 0 {
		return clone(state)
	}
	if quantity <= 0 {
		return removeItem(state, id)
	}
	next := clone(state)
	next.Items[idx].Quantity = capQuantity(quantity)
	return next
}

func capQuantity(quantity int) int {
	if quantity > MaxLineQuantity {
		return MaxLineQuantity
	}
	return quantity
}

func removeItem(state State, id string) State {
	out := make([]Item, 0, len(state.Items))
	for _, item := range state.Items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return State{Items: out}
}

// TotalLineCount is the number of distinct lines, not units.
func (s State) TotalLineCount() int {
	return len(s.Items)
}

// TotalQuantity sums every line's quantity.
func (s State) TotalQuantity() int {
	total := 0
	for _, item := range s.Items {
		total += item.Quantity
	}
	return total
}

func indexOf(items []Item, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func clone(state State) State {
	items := make([]Item, len(state.Items))
	copy(items, state.Items)
	return State{Items: items}
}
