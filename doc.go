/*
Package lrutrack is the module root for two small, embeddable, single-threaded
cache data structures: github.com/aryszka/lrutrack/lrutrack and
github.com/aryszka/lrutrack/slru.

LRU-Tracker

The lrutrack subpackage tracks a set of byte-slice keys, each tagged with a
caller-chosen uint32 value, with no capacity limit of its own. The caller
drives eviction explicitly by calling RemoveLRU, which evicts the entries
sharing the least-recently-used hash bucket row.

Sized-LRU

The slru subpackage is a bounded-capacity cache: every entry declares a
"consumption" weight against a fixed budget. Inserting an entry that would
overflow the budget evicts least-recently-used bucket rows until it fits, or
fails with ErrDoesNotFit if it never would.

Shared machinery

Both subpackages share their row-hashing (internal/rowhash) and their
recency-ordered bucket-row list (internal/lrulist); each keeps its own item
arena and free list, since what an item arena slot looks like and how it is
reclaimed differs between the two: lrutrack's slots are reclaimed by value
identity, slru's by the consumption field returning to zero.

Neither subpackage is safe for concurrent use; callers that need concurrent
access must serialize it themselves.
*/
package lrutrack
