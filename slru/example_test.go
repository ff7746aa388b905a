package slru_test

import (
	"fmt"

	"github.com/aryszka/lrutrack/slru"
)

func Example() {
	c, err := slru.New(slru.Options{
		HashTableSize: 256,
		CacheSize:     1 << 16,
		OnEvict:       func(value uint32) {},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer c.Close()

	c.InsertString("home", 1, 13)
	c.InsertString("article-one", 2, 16)

	if v := c.FetchString("article-one", 0); v != 0 {
		fmt.Println("found:", v)
	} else {
		fmt.Println("article not found")
	}

	// Output:
	// found: 2
}
