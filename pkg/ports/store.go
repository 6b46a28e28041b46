package ports

import "errors"

// ErrQuotaExceeded is returned by BlobStore.Set when the store cannot hold
// the entry. The persistence layer degrades (strips image payloads) and
// retries once before reporting failure.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// BlobStore abstracts the key-value store that holds serialized documents.
//
// The interactive product backs this with browser localStorage, which caps
// individual entries; the persistence layer therefore chunks large records
// and the store only ever sees bounded values.
type BlobStore interface {
	// Get returns the value for key. The second result is false if the key
	// does not exist.
	Get(key string) (string, bool, error)

	// Set stores a value under key, returning ErrQuotaExceeded when the
	// store is full.
	Set(key, value string) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys returns all stored keys with the given prefix.
	Keys(prefix string) ([]string, error)
}
