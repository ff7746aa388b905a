package slru

import (
	"fmt"
	"testing"
)

func benchKey(i int) []byte {
	return []byte(fmt.Sprintf("key-%d", i))
}

func benchmarkFetch(b *testing.B, n int) {
	c, _ := New(Options{HashTableSize: 1 << 20, CacheSize: uint32(n * 32), OnEvict: func(uint32) {}})
	for i := 0; i < n; i++ {
		c.Insert(benchKey(i), uint32(i+1), 16)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Fetch(benchKey(i%n), 0)
	}
}

func benchmarkInsertWithEviction(b *testing.B, n int) {
	c, _ := New(Options{HashTableSize: 1 << 16, CacheSize: uint32(n * 16), OnEvict: func(uint32) {}})
	for i := 0; i < n; i++ {
		c.Insert(benchKey(i), uint32(i+1), 16)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Insert(benchKey(n+i), uint32(i+1), 16)
	}
}

func BenchmarkFetch1(b *testing.B)      { benchmarkFetch(b, 1) }
func BenchmarkFetch100(b *testing.B)    { benchmarkFetch(b, 100) }
func BenchmarkFetch10000(b *testing.B)  { benchmarkFetch(b, 10000) }
func BenchmarkFetch100000(b *testing.B) { benchmarkFetch(b, 100000) }

func BenchmarkInsertWithEviction1(b *testing.B)     { benchmarkInsertWithEviction(b, 1) }
func BenchmarkInsertWithEviction100(b *testing.B)   { benchmarkInsertWithEviction(b, 100) }
func BenchmarkInsertWithEviction10000(b *testing.B) { benchmarkInsertWithEviction(b, 10000) }
