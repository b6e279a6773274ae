package hcache

import (
	"encoding/binary"

	radix "github.com/armon/go-radix"
)

// ttlIndex orders nodes with a finite deadline by earliest-deadline-first,
// with insertion order breaking ties (spec §4.3). It is backed by
// github.com/armon/go-radix, the teacher's (ammario/tlru) own dependency
// for the same purpose.
//
// The teacher keyed its radix tree by the serialized deadline alone and
// resolved collisions by nudging the deadline forward by an
// exponentially-increasing nanosecond delta until it found a free slot.
// That perturbs the stored deadline and still only approximates stability
// under concurrent inserts at the same instant. This rendering instead
// appends an 8-byte big-endian insertion sequence number after the 8-byte
// big-endian deadline: since the sequence is strictly increasing and radix
// ordering is lexicographic over the key bytes, ordering by the composite
// key is exactly (deadline, insertion_sequence) ordering, with the real
// deadline never altered.
type ttlIndex[K comparable, V any] struct {
	tree *radix.Tree
	seq  uint64
}

func newTTLIndex[K comparable, V any]() ttlIndex[K, V] {
	return ttlIndex[K, V]{tree: radix.New()}
}

func ttlKey(deadline int64, seq uint64) []byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], uint64(deadline))
	binary.BigEndian.PutUint64(b[8:16], seq)
	return b[:]
}

// insert places n in the index at the given deadline and stamps n.ttlKey
// with the token needed to remove it again.
func (t *ttlIndex[K, V]) insert(n *node[K, V], deadline int64) {
	t.seq++
	key := ttlKey(deadline, t.seq)
	t.tree.Insert(string(key), n)
	n.hasDeadline = true
	n.deadline = deadline
	n.ttlKey = key
}

// remove drops n from the index using its stored token. A no-op if n has
// no finite deadline.
func (t *ttlIndex[K, V]) remove(n *node[K, V]) {
	if !n.hasDeadline {
		return
	}
	t.tree.Delete(string(n.ttlKey))
	n.ttlKey = nil
	n.hasDeadline = false
}

// peekMin returns the node with the smallest (deadline, sequence), or nil
// if the index is empty.
func (t *ttlIndex[K, V]) peekMin() *node[K, V] {
	_, v, ok := t.tree.Minimum()
	if !ok {
		return nil
	}
	return v.(*node[K, V])
}

func (t *ttlIndex[K, V]) len() int {
	return t.tree.Len()
}
