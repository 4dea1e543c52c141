package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/quorum/errors"
)

const (
	// DefaultFreeListSize is the number of btree nodes kept for reuse.
	DefaultFreeListSize = btree.DefaultFreeListSize

	// btreeDegree of the in-memory cache. Operations touch a handful of
	// keys, a shallow tree is enough.
	btreeDegree = 2
)

// MemStore returns a store kept only in memory. It backs unit tests and the
// nested scratch pads of a single operation.
func MemStore() CacheableKVStore {
	e := EmptyKVStore{}
	return NewBTreeCacheWrap(e, e.NewBatch(), nil)
}

// ShowOpser returns an ordered list of all operations performed
type ShowOpser interface {
	ShowOps() []Op
}

// LogableStore returns a memory store together with the log of every write
// made to it.
func LogableStore() (CacheableKVStore, ShowOpser) {
	e := EmptyKVStore{}
	b := NewNonAtomicBatch(e)
	return NewBTreeCacheWrap(e, b, nil), b
}

// BTreeCacheWrap keeps pending writes in a btree on top of a read only
// store. Reads see the pending writes first. Writes are also queued in a
// batch that is applied to the parent on Write.
type BTreeCacheWrap struct {
	bt    *btree.BTree
	free  *btree.FreeList
	back  ReadOnlyKVStore
	batch Batch
}

var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap creates a cache over kv flushing into batch. A nil free
// list allocates a new one; nested wraps share the list of their parent.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, batch Batch, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:    btree.NewWithFreeList(btreeDegree, free),
		free:  free,
		back:  kv,
		batch: batch,
	}
}

// CacheWrap returns a nested cache. Writing it only updates this cache,
// so the batch does not need to be atomic.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b, b.NewBatch(), b.free)
}

// NewBatch returns a batch writing into this cache.
func (b BTreeCacheWrap) NewBatch() Batch {
	return NewNonAtomicBatch(b)
}

// Write flushes all pending writes to the parent and empties the cache.
func (b BTreeCacheWrap) Write() error {
	err := b.batch.Write()
	b.Discard()
	return err
}

// Discard drops all pending writes. Tree nodes are returned to the free list.
func (b BTreeCacheWrap) Discard() {
	for b.bt.DeleteMin() != nil {
	}
	if nb, ok := b.batch.(*NonAtomicBatch); ok {
		nb.ops = nil
	}
}

// Set implements KVStore.
func (b BTreeCacheWrap) Set(key, value []byte) error {
	b.bt.ReplaceOrInsert(setItem{bkey: bkey{key}, value: value})
	return b.batch.Set(key, value)
}

// Delete implements KVStore. The key is remembered as removed so that a
// value in the parent is hidden until Write.
func (b BTreeCacheWrap) Delete(key []byte) error {
	b.bt.ReplaceOrInsert(deletedItem{bkey{key}})
	return b.batch.Delete(key)
}

// Get implements ReadOnlyKVStore.
func (b BTreeCacheWrap) Get(key []byte) ([]byte, error) {
	value, _, cached, err := b.cached(key)
	if err != nil || cached {
		return value, err
	}
	return b.back.Get(key)
}

// Has implements ReadOnlyKVStore.
func (b BTreeCacheWrap) Has(key []byte) (bool, error) {
	_, present, cached, err := b.cached(key)
	if err != nil || cached {
		return present, err
	}
	return b.back.Has(key)
}

// cached looks up a pending write. cached is false when the key was not
// written since the last Write, present is false when it was deleted.
func (b BTreeCacheWrap) cached(key []byte) (value []byte, present, cached bool, err error) {
	switch item := b.bt.Get(bkey{key}).(type) {
	case nil:
		return nil, false, false, nil
	case setItem:
		return item.value, true, true, nil
	case deletedItem:
		return nil, false, true, nil
	default:
		return nil, false, false, errors.Wrapf(errors.ErrDatabase, "unknown item in btree: %#v", item)
	}
}

type keyer interface {
	Key() []byte
}

// bkey orders btree items by their key. Every item stored in the tree
// embeds it.
type bkey struct {
	key []byte
}

var _ btree.Item = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

// Less panics if the other item is not a keyer.
func (k bkey) Less(item btree.Item) bool {
	return bytes.Compare(k.key, item.(keyer).Key()) < 0
}

type deletedItem struct {
	bkey
}

type setItem struct {
	bkey
	value []byte
}
