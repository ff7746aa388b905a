// Package rowhash maps a key to a bucket-table row index.
//
// The mixing step itself is delegated to github.com/spaolacci/murmur3: the
// original C implementation this module is ported from hand-rolls the
// MurmurHash2 32-bit finalizer, but its own spec calls that mixing schedule
// "well-known and substitutable." The final reduction to a row index is not
// substitutable — it is load bearing for the bucket table's invariants — so
// it stays here.
package rowhash

import "github.com/spaolacci/murmur3"

// Row hashes key with seed and reduces the result to a row index in
// [0, tableSize). When tableSize is a power of two, the reduction is a
// bitmask (tableSize-1); otherwise it falls back to modulo.
func Row(key []byte, seed uint32, tableSize uint32) uint32 {
	h := murmur3.Sum32WithSeed(key, seed)
	if IsPowerOfTwo(tableSize) {
		return h & (tableSize - 1)
	}
	return h % tableSize
}

// IsPowerOfTwo reports whether x is a nonzero power of two.
func IsPowerOfTwo(x uint32) bool {
	return x != 0 && x&(x-1) == 0
}
