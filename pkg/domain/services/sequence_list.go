package services

const noNode = -1

type sequenceNode[V any] struct {
	key   uint64
	value V
	prev  int
	next  int
}

// SequenceList is a sorted doubly-linked list whose nodes live in a slice and
// link to each other by index. Nodes are kept in ascending key order; a key
// equal to existing keys is placed after them, so equal keys keep their
// insertion order.
type SequenceList[V any] struct {
	nodes []sequenceNode[V]
	head  int
	tail  int
}

// NewSequenceList creates an empty list with room for capacity nodes
func NewSequenceList[V any](capacity int) *SequenceList[V] {
	return &SequenceList[V]{
		nodes: make([]sequenceNode[V], 0, capacity),
		head:  noNode,
		tail:  noNode,
	}
}

// Len returns the number of nodes in the list
func (s *SequenceList[V]) Len() int {
	return len(s.nodes)
}

// Insert adds value under key, keeping the list sorted
func (s *SequenceList[V]) Insert(key uint64, value V) {
	idx := len(s.nodes)
	s.nodes = append(s.nodes, sequenceNode[V]{key: key, value: value, prev: noNode, next: noNode})

	if s.head == noNode {
		s.head = idx
		s.tail = idx
		return
	}

	if key < s.nodes[s.head].key {
		s.nodes[idx].next = s.head
		s.nodes[s.head].prev = idx
		s.head = idx
		return
	}

	cur := s.head
	for cur != noNode && s.nodes[cur].key <= key {
		cur = s.nodes[cur].next
	}

	if cur == noNode {
		s.nodes[idx].prev = s.tail
		s.nodes[s.tail].next = idx
		s.tail = idx
		return
	}

	// cur is never the head here, so it always has a predecessor
	prev := s.nodes[cur].prev
	s.nodes[idx].prev = prev
	s.nodes[idx].next = cur
	s.nodes[prev].next = idx
	s.nodes[cur].prev = idx
}

// Values returns the values from head to tail
func (s *SequenceList[V]) Values() []V {
	values := make([]V, 0, len(s.nodes))
	for cur := s.head; cur != noNode; cur = s.nodes[cur].next {
		values = append(values, s.nodes[cur].value)
	}
	return values
}

// Keys returns the keys from head to tail
func (s *SequenceList[V]) Keys() []uint64 {
	keys := make([]uint64, 0, len(s.nodes))
	for cur := s.head; cur != noNode; cur = s.nodes[cur].next {
		keys = append(keys, s.nodes[cur].key)
	}
	return keys
}

// KeysBackward returns the keys from tail to head
func (s *SequenceList[V]) KeysBackward() []uint64 {
	keys := make([]uint64, 0, len(s.nodes))
	for cur := s.tail; cur != noNode; cur = s.nodes[cur].prev {
		keys = append(keys, s.nodes[cur].key)
	}
	return keys
}
