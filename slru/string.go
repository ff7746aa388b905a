package slru

// InsertString, RemoveString and FetchString forward to the byte-slice
// entrypoints, the Go equivalent of the original's zero-terminated-key
// helper functions.

// InsertString is Insert for a string key.
func (c *Cache) InsertString(key string, value uint32, consumption uint16) error {
	return c.Insert([]byte(key), value, consumption)
}

// RemoveString is Remove for a string key.
func (c *Cache) RemoveString(key string) error {
	return c.Remove([]byte(key))
}

// FetchString is Fetch for a string key.
func (c *Cache) FetchString(key string, invalidValue uint32) uint32 {
	return c.Fetch([]byte(key), invalidValue)
}
