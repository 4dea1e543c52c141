package store

// Recorder interface is implemented by anything returned from
// NewRecordingStore
type Recorder interface {
	// KVPairs returns all keys written through the recorder. Deleted
	// keys map to a nil value.
	KVPairs() map[string][]byte
}

// NewRecordingStore wraps given store and records every write that reaches
// it. Writes staged in a cache wrap are recorded only once the cache wrap is
// written.
func NewRecordingStore(db CacheableKVStore) *RecordingStore {
	return &RecordingStore{
		CacheableKVStore: db,
		changes:          make(map[string][]byte),
	}
}

// RecordingStore wraps a cacheable store and records any change operations
type RecordingStore struct {
	CacheableKVStore
	// changes is a map from key to the last written value
	changes map[string][]byte
}

var _ CacheableKVStore = (*RecordingStore)(nil)
var _ Recorder = (*RecordingStore)(nil)

// KVPairs returns the content of changes as KVPairs
func (r *RecordingStore) KVPairs() map[string][]byte {
	return r.changes
}

// Set records the changes while performing
func (r *RecordingStore) Set(key, value []byte) error {
	r.changes[string(key)] = value
	return r.CacheableKVStore.Set(key, value)
}

// Delete records the changes while performing
func (r *RecordingStore) Delete(key []byte) error {
	r.changes[string(key)] = nil
	return r.CacheableKVStore.Delete(key)
}

// CacheWrap wraps this store, so that the writes are going through the
// recorder once the cache is written.
func (r *RecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, NewNonAtomicBatch(r), nil)
}
