package registry

// Store is a keyed collection that creates each entity at most once.
// Values are kept in creation order.
type Store[T any] struct {
	index map[string]int
	items []T
	next  int
}

// NewStore creates an empty Store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{index: make(map[string]int)}
}

// GetOrCreate returns the entity stored under key. If there is none, create
// is called with the next sequence number and its result stored; wasNew
// reports which case happened. A hit never consumes a sequence number.
func (s *Store[T]) GetOrCreate(key string, create func(seq int) T) (entity T, wasNew bool) {
	if i, ok := s.index[key]; ok {
		return s.items[i], false
	}
	seq := s.next
	s.next++
	v := create(seq)
	s.index[key] = len(s.items)
	s.items = append(s.items, v)
	return v, true
}

// Values returns the entities in creation order.
func (s *Store[T]) Values() []T {
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}
