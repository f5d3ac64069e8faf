package cart

// Store is the state container owned by one session. It is not safe for
// concurrent use; callers serialize access per session.
type Store struct {
	state State
}

// NewStore seeds a store from a previously saved state. Duplicate ids in the
// input are merged so the one-line-per-product rule holds from the start.
func NewStore(initial State) *Store {
	s := &Store{state: State{Items: []Item{}}}
	for _, item := range initial.Items {
		s.Dispatch(Add(item, item.Quantity))
	}
	return s
}

// Dispatch runs action through Reduce and keeps the result.
func (s *Store) Dispatch(action Action) {
	s.state = Reduce(s.state, action)
}

func (s *Store) AddItem(item Item, quantity int) {
	s.Dispatch(Add(item, quantity))
}

func (s *Store) UpdateQuantity(id string, quantity int) {
	s.Dispatch(UpdateQuantity(id, quantity))
}

func (s *Store) RemoveItem(id string) {
	s.Dispatch(Remove(id))
}

func (s *Store) ClearCart() {
	s.Dispatch(Clear())
}

func (s *Store) TotalLineCount() int {
	return s.state.TotalLineCount()
}

func (s *Store) TotalQuantity() int {
	return s.state.TotalQuantity()
}

// Items returns a copy of the lines in display order.
func (s *Store) Items() []Item {
	return clone(s.state).Items
}

// Snapshot returns a copy of the full state, suitable for persisting.
func (s *Store) Snapshot() State {
	return clone(s.state)
}
