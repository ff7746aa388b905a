// Package lrulist is the doubly-linked list that orders hash-table rows
// (not individual items) by recency of access. A row is present in the list
// exactly while its bucket chain is non-empty; promoting or evicting an
// item promotes or removes its whole row.
//
// This is the same list shape as the original C module's
// hash_table_lru_links array (two uint32 per row: prev and next), split
// into two parallel slices instead of one interleaved one. The addressed
// invariants are identical; only the packaging changed.
package lrulist

// None is the null row index, matching the original's UINT32_MAX sentinel.
const None uint32 = 1<<32 - 1

// List tracks recency order over row indices in [0, Size).
type List struct {
	prev, next []uint32
	Head, Tail uint32
}

// New allocates a list over size rows, all initially absent (empty chain).
func New(size uint32) *List {
	l := &List{
		prev: make([]uint32, size),
		next: make([]uint32, size),
		Head: None,
		Tail: None,
	}
	for i := range l.prev {
		l.prev[i] = None
		l.next[i] = None
	}
	return l
}

// Contains reports whether row i currently has a position in the list.
func (l *List) Contains(i uint32) bool {
	return i == l.Head || i == l.Tail || l.prev[i] != None || l.next[i] != None
}

// InsertHead adds a previously-absent row at the head of the list.
func (l *List) InsertHead(i uint32) {
	if l.Head != None {
		l.prev[l.Head] = i
		l.next[i] = l.Head
		l.Head = i
	} else {
		l.Head = i
		l.Tail = i
	}
}

// MoveToHead promotes a row already present in the list to the head.
func (l *List) MoveToHead(i uint32) {
	if l.Head == l.Tail {
		return
	}

	if i == l.Tail {
		l.Tail = l.prev[i]
		l.prev[i] = None
		l.next[l.Tail] = None
		l.prev[l.Head] = i
		l.next[i] = l.Head
		l.Head = i
		return
	}

	if i == l.Head {
		return
	}

	p, n := l.prev[i], l.next[i]
	l.next[p] = n
	l.prev[n] = p
	l.prev[i] = None
	l.next[i] = l.Head
	l.prev[l.Head] = i
	l.Head = i
}

// Remove takes a row, whose chain just became empty, out of the list.
func (l *List) Remove(i uint32) {
	if l.Head == l.Tail {
		l.Head = None
		l.Tail = None
		return
	}

	switch i {
	case l.Head:
		l.Head = l.next[i]
		l.prev[l.Head] = None
		l.next[i] = None
	case l.Tail:
		l.Tail = l.prev[i]
		l.next[l.Tail] = None
		l.prev[i] = None
	default:
		p, n := l.prev[i], l.next[i]
		l.next[p] = n
		l.prev[n] = p
		l.prev[i] = None
		l.next[i] = None
	}
}

// EvictTail removes and returns the current tail row; ok is false (and row
// is None) if the list was empty. Callers are responsible for clearing
// whatever the row owns (the bucket chain); the list only knows about row
// ordering.
func (l *List) EvictTail() (row uint32, ok bool) {
	if l.Tail == None {
		return None, false
	}

	row = l.Tail
	newTail := l.prev[row]
	l.prev[row] = None

	if newTail != None {
		l.next[newTail] = None
	}

	if l.Head == l.Tail {
		l.Head = newTail
	}
	l.Tail = newTail

	return row, true
}

// Reset clears the list back to empty, keeping the allocated slices.
func (l *List) Reset() {
	for i := range l.prev {
		l.prev[i] = None
		l.next[i] = None
	}
	l.Head = None
	l.Tail = None
}

// Next returns the row following i in the list, or None if i is the tail.
// Intended for read-only traversal, e.g. invariant checks.
func (l *List) Next(i uint32) uint32 {
	return l.next[i]
}

// Empty reports whether the list currently holds no rows.
func (l *List) Empty() bool {
	return l.Head == None
}

// Len returns the number of allocated rows this list was sized for.
func (l *List) Len() int {
	return len(l.prev)
}
