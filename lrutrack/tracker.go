// Package lrutrack tracks a set of byte-slice keys, each tagged with a
// small opaque uint32 value, with no capacity limit of its own. Callers
// drive eviction explicitly through RemoveLRU. Lookups promote the
// looked-up key's bucket row to the front of the recency list; because rows
// (not individual items) are what gets ordered, RemoveLRU can evict more
// than one key at a time — every key sharing the least-recently-used row.
//
// A Tracker is not safe for concurrent use.
package lrutrack

import (
	"bytes"
	"fmt"

	"github.com/aryszka/lrutrack/internal/lrulist"
	"github.com/aryszka/lrutrack/internal/rowhash"
)

// EvictFunc is invoked synchronously whenever a value leaves the tracker,
// whether through Remove, RemoveLRU, RemoveAll, or Close. It must not call
// back into the same Tracker.
type EvictFunc func(value uint32)

// GrowFunc, if set, is called before the item arena grows. Returning an
// error aborts the growth and the triggering operation returns ErrOOM; the
// tracker is left in its prior valid state. Left nil, growth always
// succeeds.
type GrowFunc func(oldCapacity, newCapacity uint32) error

// Options configures a new Tracker.
type Options struct {
	// HashTableSize is the number of rows in the bucket table. Must be a
	// power of two.
	HashTableSize uint32

	// NumInitialItems preallocates the item arena. Zero defers
	// allocation to the first Insert, at which point it grows to
	// HashTableSize.
	NumInitialItems uint32

	// HashSeed perturbs the row hash; any 32-bit value is valid.
	HashSeed uint32

	// InvalidValue is the sentinel returned by Lookup on a miss. It must
	// never be a value a caller actually inserts.
	InvalidValue uint32

	// OnEvict is required and receives every value that leaves the
	// tracker.
	OnEvict EvictFunc

	// GrowFunc is optional; see GrowFunc's doc comment.
	GrowFunc GrowFunc
}

type item struct {
	key   []byte
	value uint32
	next  uint32
}

// Tracker is the handle returned by New.
type Tracker struct {
	onEvict       EvictFunc
	grow          GrowFunc
	items         []item
	table         []uint32
	lru           *lrulist.List
	firstFree     uint32
	hashTableSize uint32
	seed          uint32
	invalidValue  uint32
}

// New creates a Tracker. HashTableSize must be a nonzero power of two and
// OnEvict must be set; otherwise New returns an error wrapping ErrInvalid.
func New(opts Options) (*Tracker, error) {
	if !rowhash.IsPowerOfTwo(opts.HashTableSize) {
		return nil, fmt.Errorf("%w: HashTableSize must be a power of two, got %d", ErrInvalid, opts.HashTableSize)
	}
	if opts.OnEvict == nil {
		return nil, fmt.Errorf("%w: OnEvict is required", ErrInvalid)
	}

	t := &Tracker{
		onEvict:       opts.OnEvict,
		grow:          opts.GrowFunc,
		table:         make([]uint32, opts.HashTableSize),
		lru:           lrulist.New(opts.HashTableSize),
		hashTableSize: opts.HashTableSize,
		seed:          opts.HashSeed,
		invalidValue:  opts.InvalidValue,
	}
	for i := range t.table {
		t.table[i] = lrulist.None
	}

	if opts.NumInitialItems == 0 {
		t.firstFree = lrulist.None
		return t, nil
	}

	t.items = make([]item, opts.NumInitialItems)
	last := len(t.items) - 1
	for i := range t.items {
		t.items[i].value = t.invalidValue
		if i == last {
			t.items[i].next = lrulist.None
		} else {
			t.items[i].next = uint32(i + 1)
		}
	}
	t.firstFree = 0

	return t, nil
}

// Close invokes OnEvict for every in-use slot, in arena-index order (not
// LRU order — callers relying on the eviction order beyond "every value
// exactly once" will observe this). After Close the Tracker must not be
// used again.
func (t *Tracker) Close() {
	for i := range t.items {
		if t.items[i].value != t.invalidValue {
			t.onEvict(t.items[i].value)
		}
	}
	t.items = nil
	t.table = nil
	t.lru = nil
}

func (t *Tracker) findIndex(key []byte, row uint32) uint32 {
	iter := t.table[row]
	for iter != lrulist.None {
		it := &t.items[iter]
		if bytes.Equal(it.key, key) {
			return iter
		}
		iter = it.next
	}
	return lrulist.None
}

func (t *Tracker) growArena() error {
	oldCap := uint32(len(t.items))
	var newCap uint32
	if oldCap == 0 {
		newCap = t.hashTableSize
	} else {
		newCap = oldCap * 2
	}

	if t.grow != nil {
		if err := t.grow(oldCap, newCap); err != nil {
			return fmt.Errorf("%w: %v", ErrOOM, err)
		}
	}

	grown := make([]item, newCap)
	copy(grown, t.items)
	for i := oldCap; i < newCap; i++ {
		grown[i].value = t.invalidValue
		if i == newCap-1 {
			grown[i].next = lrulist.None
		} else {
			grown[i].next = i + 1
		}
	}

	t.items = grown
	t.firstFree = oldCap
	return nil
}

// Insert adds key with value. Reinserting a key already present, inserting
// a zero-length key, or inserting InvalidValue are precondition violations
// and return an error wrapping ErrInvalid. Growing the item arena to make
// room can fail via GrowFunc, in which case Insert returns ErrOOM and the
// tracker is unchanged.
func (t *Tracker) Insert(key []byte, value uint32) error {
	if len(key) == 0 {
		return fmt.Errorf("%w: empty key", ErrInvalid)
	}
	if value == t.invalidValue {
		return fmt.Errorf("%w: value equals InvalidValue", ErrInvalid)
	}

	row := rowhash.Row(key, t.seed, t.hashTableSize)
	if t.findIndex(key, row) != lrulist.None {
		return fmt.Errorf("%w: key already present", ErrInvalid)
	}

	if t.firstFree == lrulist.None {
		if err := t.growArena(); err != nil {
			return err
		}
	}

	index := t.firstFree
	it := &t.items[index]

	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)
	it.key = keyCopy
	it.value = value

	if t.table[row] == lrulist.None {
		t.lru.InsertHead(row)
	} else {
		t.lru.MoveToHead(row)
	}

	t.firstFree = it.next
	it.next = t.table[row]
	t.table[row] = index

	return nil
}

// Remove deletes key, invoking OnEvict on its value. Returns ErrNotFound
// with no side effects if key is absent.
func (t *Tracker) Remove(key []byte) error {
	row := rowhash.Row(key, t.seed, t.hashTableSize)
	index := t.findIndex(key, row)
	if index == lrulist.None {
		return ErrNotFound
	}

	it := &t.items[index]
	t.onEvict(it.value)

	prevIndex := lrulist.None
	iter := t.table[row]
	for iter != index {
		prevIndex = iter
		iter = t.items[iter].next
	}

	if prevIndex == lrulist.None {
		t.table[row] = it.next
		if t.table[row] == lrulist.None {
			t.lru.Remove(row)
		}
	} else {
		t.items[prevIndex].next = it.next
	}

	it.next = t.firstFree
	t.firstFree = index
	it.key = nil
	it.value = t.invalidValue

	return nil
}

// Lookup returns key's value and promotes its row to the front of the
// recency list. A miss returns InvalidValue and does not change state.
func (t *Tracker) Lookup(key []byte) uint32 {
	row := rowhash.Row(key, t.seed, t.hashTableSize)
	index := t.findIndex(key, row)
	if index == lrulist.None {
		return t.invalidValue
	}

	t.lru.MoveToHead(row)
	return t.items[index].value
}

// RemoveLRU evicts every key sharing the least-recently-used row, invoking
// OnEvict for each. Returns ErrNotFound if the tracker holds nothing.
func (t *Tracker) RemoveLRU() error {
	row, ok := t.lru.EvictTail()
	if !ok {
		return ErrNotFound
	}

	iter := t.table[row]
	t.table[row] = lrulist.None

	for iter != lrulist.None {
		it := &t.items[iter]
		t.onEvict(it.value)
		it.key = nil
		it.value = t.invalidValue

		next := it.next
		it.next = t.firstFree
		t.firstFree = iter
		iter = next
	}

	return nil
}

// RemoveAll evicts everything in the tracker, invoking OnEvict for every
// key, and resets the free list to contain every arena slot.
func (t *Tracker) RemoveAll() {
	for row := uint32(0); row < t.hashTableSize; row++ {
		iter := t.table[row]
		for iter != lrulist.None {
			it := &t.items[iter]
			t.onEvict(it.value)
			it.key = nil
			it.value = t.invalidValue
			iter = it.next
		}
		t.table[row] = lrulist.None
	}

	t.lru.Reset()

	last := len(t.items) - 1
	for i := range t.items {
		if i == last {
			t.items[i].next = lrulist.None
		} else {
			t.items[i].next = uint32(i + 1)
		}
	}

	if len(t.items) == 0 {
		t.firstFree = lrulist.None
	} else {
		t.firstFree = 0
	}
}
