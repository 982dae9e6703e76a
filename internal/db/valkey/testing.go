package valkey

import "github.com/redis/rueidis"

// NewStoreForTest wraps an existing rueidis client, typically a rueidis/mock client.
// Close on the returned store closes c.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
