package layers

// Stack keeps layers in paint order and hands out IDs.
//
// IDs are never reused: restoring an older list keeps the counter ahead of
// every ID ever assigned, so eraser and property bindings stay unambiguous.
type Stack struct {
	layers []*DrawingLayer
	nextID int
}

// NewStack creates an empty stack. IDs start at 1.
func NewStack() *Stack {
	return &Stack{nextID: 1}
}

// Add assigns the next ID to l and appends it on top.
func (s *Stack) Add(l *DrawingLayer) int {
	if s.nextID == 0 {
		s.nextID = 1
	}
	l.ID = s.nextID
	s.nextID++
	s.layers = append(s.layers, l)
	return l.ID
}

// Len returns the number of layers, erased ones included.
func (s *Stack) Len() int {
	return len(s.layers)
}

// All returns the layers in paint order. The slice is a copy but the
// layers are shared with the stack.
func (s *Stack) All() []*DrawingLayer {
	return append([]*DrawingLayer(nil), s.layers...)
}

// Visible returns the non-erased layers in paint order.
func (s *Stack) Visible() []*DrawingLayer {
	var out []*DrawingLayer
	for _, l := range s.layers {
		if !l.Erased {
			out = append(out, l)
		}
	}
	return out
}

// Get returns the layer with the given ID, or nil.
func (s *Stack) Get(id int) *DrawingLayer {
	for _, l := range s.layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// Remove deletes the layer with the given ID.
func (s *Stack) Remove(id int) bool {
	for i, l := range s.layers {
		if l.ID == id {
			s.layers = append(s.layers[:i], s.layers[i+1:]...)
			return true
		}
	}
	return false
}

// Erase marks layers as erased and returns how many changed state.
func (s *Stack) Erase(ids ...int) int {
	n := 0
	for _, id := range ids {
		if l := s.Get(id); l != nil && !l.Erased {
			l.Erased = true
			n++
		}
	}
	return n
}

// NextID returns the ID the next Add will assign.
func (s *Stack) NextID() int {
	if s.nextID == 0 {
		return 1
	}
	return s.nextID
}

// Reserve moves the ID counter to at least id.
func (s *Stack) Reserve(id int) {
	if id > s.nextID {
		s.nextID = id
	}
}

// Clear drops every layer. The ID counter keeps running.
func (s *Stack) Clear() {
	s.layers = nil
}

// Snapshot returns a deep copy of the layer list.
func (s *Stack) Snapshot() ([]*DrawingLayer, error) {
	return CloneAll(s.layers)
}

// Restore replaces the list with deep copies of list.
func (s *Stack) Restore(list []*DrawingLayer) error {
	copied, err := CloneAll(list)
	if err != nil {
		return err
	}
	s.layers = copied
	for _, l := range copied {
		if l.ID >= s.nextID {
			s.nextID = l.ID + 1
		}
	}
	if s.nextID == 0 {
		s.nextID = 1
	}
	return nil
}
