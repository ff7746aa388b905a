package lrutrack_test

import (
	"fmt"

	"github.com/aryszka/lrutrack/lrutrack"
)

func Example() {
	tr, err := lrutrack.New(lrutrack.Options{
		HashTableSize: 256,
		InvalidValue:  0,
		OnEvict:       func(value uint32) {},
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer tr.Close()

	tr.InsertString("home", 1)
	tr.InsertString("article-one", 2)

	if v := tr.LookupString("article-one"); v != 0 {
		fmt.Println("found:", v)
	} else {
		fmt.Println("article not found")
	}

	// Output:
	// found: 2
}
