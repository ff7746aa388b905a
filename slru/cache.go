// Package slru is a bounded-capacity cache: every entry declares a
// "consumption" weight against a fixed budget, and inserts that would
// overflow the budget evict least-recently-used bucket rows until the new
// entry fits, or are rejected with ErrDoesNotFit.
//
// It shares its row-hashing and per-row recency list with
// github.com/aryszka/lrutrack/internal/lrulist and
// github.com/aryszka/lrutrack/internal/rowhash, but keeps its own item
// arena and budget accounting, since an slru item's free sentinel
// (consumption == 0) and its consumption-weighted eviction are specific to
// this module.
//
// A Cache is not safe for concurrent use.
package slru

import (
	"bytes"
	"fmt"

	"github.com/aryszka/lrutrack/internal/lrulist"
	"github.com/aryszka/lrutrack/internal/rowhash"
)

const maxKeyLength = 1<<16 - 1

// EvictFunc is invoked synchronously whenever a value leaves the cache,
// whether through Remove, RemoveLRU, budget-driven eviction inside Insert,
// RemoveAll, or Close. It must not call back into the same Cache.
type EvictFunc func(value uint32)

// GrowFunc, if set, is called before the item arena grows. Returning an
// error aborts the growth and the triggering Insert returns ErrOOM, leaving
// the cache in its prior valid state. Left nil, growth always succeeds.
type GrowFunc func(oldCapacity, newCapacity uint32) error

// Options configures a new Cache.
type Options struct {
	// HashTableSize is the number of rows in the bucket table. Must be a
	// power of two (this port implements the per-bucket-LRU policy,
	// spec.md's "v1"; the arbitrary-size "v2" timestamp-scan policy is
	// not implemented — see DESIGN.md).
	HashTableSize uint32

	// NumInitialItems preallocates the item arena. Zero defers
	// allocation to the first Insert.
	NumInitialItems uint32

	// HashSeed perturbs the row hash.
	HashSeed uint32

	// CacheSize is the fixed consumption budget. Must be at least 1.
	CacheSize uint32

	// OnEvict is required and receives every value that leaves the
	// cache.
	OnEvict EvictFunc

	// GrowFunc is optional; see GrowFunc's doc comment.
	GrowFunc GrowFunc
}

type item struct {
	key         []byte
	value       uint32
	consumption uint16
	next        uint32
}

// Cache is the handle returned by New.
type Cache struct {
	onEvict       EvictFunc
	grow          GrowFunc
	items         []item
	table         []uint32
	lru           *lrulist.List
	firstFree     uint32
	hashTableSize uint32
	seed          uint32
	cacheLeft     uint32
	numItemsInUse uint32
}

// New creates a Cache. HashTableSize must be a nonzero power of two,
// CacheSize must be at least 1, and OnEvict must be set.
func New(opts Options) (*Cache, error) {
	if !rowhash.IsPowerOfTwo(opts.HashTableSize) {
		return nil, fmt.Errorf("%w: HashTableSize must be a power of two, got %d", ErrInvalid, opts.HashTableSize)
	}
	if opts.CacheSize == 0 {
		return nil, fmt.Errorf("%w: CacheSize must be at least 1", ErrInvalid)
	}
	if opts.OnEvict == nil {
		return nil, fmt.Errorf("%w: OnEvict is required", ErrInvalid)
	}

	c := &Cache{
		onEvict:       opts.OnEvict,
		grow:          opts.GrowFunc,
		table:         make([]uint32, opts.HashTableSize),
		lru:           lrulist.New(opts.HashTableSize),
		hashTableSize: opts.HashTableSize,
		seed:          opts.HashSeed,
		cacheLeft:     opts.CacheSize,
	}
	for i := range c.table {
		c.table[i] = lrulist.None
	}

	if opts.NumInitialItems == 0 {
		c.firstFree = lrulist.None
		return c, nil
	}

	c.items = make([]item, opts.NumInitialItems)
	c.linkFreeRange(0, len(c.items))
	c.firstFree = 0

	return c, nil
}

// linkFreeRange wires items[from:to] into a free-list chain, the last entry
// terminating with lrulist.None.
func (c *Cache) linkFreeRange(from, to int) {
	last := to - 1
	for i := from; i < to; i++ {
		c.items[i].consumption = 0
		if i == last {
			c.items[i].next = lrulist.None
		} else {
			c.items[i].next = uint32(i + 1)
		}
	}
}

// Close invokes OnEvict for every in-use slot, in arena-index order. After
// Close the Cache must not be used again.
func (c *Cache) Close() {
	for i := range c.items {
		if c.items[i].consumption != 0 {
			c.onEvict(c.items[i].value)
		}
	}
	c.items = nil
	c.table = nil
	c.lru = nil
}

func (c *Cache) findIndex(key []byte, row uint32) uint32 {
	iter := c.table[row]
	for iter != lrulist.None {
		it := &c.items[iter]
		if bytes.Equal(it.key, key) {
			return iter
		}
		iter = it.next
	}
	return lrulist.None
}

func (c *Cache) growArena() error {
	oldCap := uint32(len(c.items))
	var newCap uint32
	if oldCap == 0 {
		newCap = c.hashTableSize
	} else {
		newCap = oldCap * 2
	}

	if c.grow != nil {
		if err := c.grow(oldCap, newCap); err != nil {
			return fmt.Errorf("%w: %v", ErrOOM, err)
		}
	}

	grown := make([]item, newCap)
	copy(grown, c.items)
	c.items = grown
	c.linkFreeRange(int(oldCap), int(newCap))

	c.firstFree = oldCap
	return nil
}

// evictOldestRow evicts the current LRU-tail row's whole bucket chain,
// restoring their consumption to the budget. Reports false if there was
// nothing to evict.
func (c *Cache) evictOldestRow() bool {
	row, ok := c.lru.EvictTail()
	if !ok {
		return false
	}

	iter := c.table[row]
	c.table[row] = lrulist.None

	for iter != lrulist.None {
		it := &c.items[iter]
		c.onEvict(it.value)
		c.cacheLeft += uint32(it.consumption)
		c.numItemsInUse--

		it.key = nil
		it.consumption = 0

		next := it.next
		it.next = c.firstFree
		c.firstFree = iter
		iter = next
	}

	return true
}

// Insert adds key with value, weighted by consumption against the fixed
// budget. If the budget cannot fit consumption, Insert evicts
// least-recently-used rows until it does; if the budget still cannot fit it
// after evicting everything, Insert returns ErrDoesNotFit and the cache is
// left empty. Reinserting a key already present, a zero-length or
// oversized key, or a zero consumption are precondition violations and
// return an error wrapping ErrInvalid.
func (c *Cache) Insert(key []byte, value uint32, consumption uint16) error {
	if len(key) == 0 || len(key) > maxKeyLength {
		return fmt.Errorf("%w: key length out of range", ErrInvalid)
	}
	if consumption == 0 {
		return fmt.Errorf("%w: consumption must be nonzero", ErrInvalid)
	}

	row := rowhash.Row(key, c.seed, c.hashTableSize)
	if c.findIndex(key, row) != lrulist.None {
		return fmt.Errorf("%w: key already present", ErrInvalid)
	}

	for c.cacheLeft < uint32(consumption) {
		if !c.evictOldestRow() {
			break
		}
	}
	if c.cacheLeft < uint32(consumption) {
		return ErrDoesNotFit
	}

	if c.firstFree == lrulist.None {
		if err := c.growArena(); err != nil {
			return err
		}
	}

	index := c.firstFree
	it := &c.items[index]

	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)
	it.key = keyCopy
	it.value = value
	it.consumption = consumption

	if c.table[row] == lrulist.None {
		c.lru.InsertHead(row)
	} else {
		c.lru.MoveToHead(row)
	}

	c.firstFree = it.next
	it.next = c.table[row]
	c.table[row] = index

	c.cacheLeft -= uint32(consumption)
	c.numItemsInUse++

	return nil
}

// Remove deletes key, invoking OnEvict on its value and returning its
// consumption to the budget. Returns ErrNotFound with no side effects if
// key is absent.
func (c *Cache) Remove(key []byte) error {
	row := rowhash.Row(key, c.seed, c.hashTableSize)
	index := c.findIndex(key, row)
	if index == lrulist.None {
		return ErrNotFound
	}

	it := &c.items[index]
	c.onEvict(it.value)

	prevIndex := lrulist.None
	iter := c.table[row]
	for iter != index {
		prevIndex = iter
		iter = c.items[iter].next
	}

	if prevIndex == lrulist.None {
		c.table[row] = it.next
		if c.table[row] == lrulist.None {
			c.lru.Remove(row)
		}
	} else {
		c.items[prevIndex].next = it.next
	}

	it.next = c.firstFree
	c.firstFree = index

	c.cacheLeft += uint32(it.consumption)
	it.consumption = 0
	it.key = nil
	c.numItemsInUse--

	return nil
}

// Fetch returns key's value, promoting its row to the front of the
// recency list. A miss returns invalidValue, a per-call sentinel, and does
// not change state.
func (c *Cache) Fetch(key []byte, invalidValue uint32) uint32 {
	row := rowhash.Row(key, c.seed, c.hashTableSize)
	index := c.findIndex(key, row)
	if index == lrulist.None {
		return invalidValue
	}

	c.lru.MoveToHead(row)
	return c.items[index].value
}

// RemoveLRU evicts every entry sharing the least-recently-used row,
// returning their consumption to the budget. Returns ErrNotFound if the
// cache holds nothing.
func (c *Cache) RemoveLRU() error {
	if !c.evictOldestRow() {
		return ErrNotFound
	}
	return nil
}

// RemoveAll evicts everything in the cache and restores the full budget.
func (c *Cache) RemoveAll() {
	for row := uint32(0); row < c.hashTableSize; row++ {
		iter := c.table[row]
		for iter != lrulist.None {
			it := &c.items[iter]
			c.onEvict(it.value)
			c.cacheLeft += uint32(it.consumption)
			it.key = nil
			it.consumption = 0
			iter = it.next
		}
		c.table[row] = lrulist.None
	}

	c.lru.Reset()
	c.linkFreeRange(0, len(c.items))

	if len(c.items) == 0 {
		c.firstFree = lrulist.None
	} else {
		c.firstFree = 0
	}

	c.numItemsInUse = 0
}
