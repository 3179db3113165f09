// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package linked provides an insertion ordered hashmap.
package linked

import "github.com/ava-labs/evmindex/utils"

type keyValue[K, V any] struct {
	key   K
	value V
}

type entry[K, V any] struct {
	next, prev *entry[K, V]
	Value      keyValue[K, V]
}

// Hashmap provides an ordered O(1) mapping from keys to values.
//
// Entries are tracked by insertion order.
type Hashmap[K comparable, V any] struct {
	entryMap  map[K]*entry[K, V]
	entryList list[K, V]
	freeList  []*entry[K, V]
}

// list is a doubly linked list with a sentinel root.
type list[K, V any] struct {
	root entry[K, V]
	len  int
}

func (l *list[K, V]) init() {
	l.root.next = &l.root
	l.root.prev = &l.root
}

func (l *list[K, V]) Len() int {
	return l.len
}

func (l *list[K, V]) front() *entry[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.next
}

func (l *list[K, V]) back() *entry[K, V] {
	if l.len == 0 {
		return nil
	}
	return l.root.prev
}

func (l *list[K, V]) pushBack(e *entry[K, V]) {
	e.prev = l.root.prev
	e.next = &l.root
	e.prev.next = e
	l.root.prev = e
	l.len++
}

func (l *list[K, V]) remove(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil
	e.prev = nil
	l.len--
}

func (l *list[K, V]) moveToBack(e *entry[K, V]) {
	if l.root.prev == e {
		return
	}
	l.remove(e)
	l.pushBack(e)
}

func NewHashmap[K comparable, V any]() *Hashmap[K, V] {
	return NewHashmapWithSize[K, V](0)
}

func NewHashmapWithSize[K comparable, V any](initialSize int) *Hashmap[K, V] {
	lh := &Hashmap[K, V]{
		entryMap: make(map[K]*entry[K, V], initialSize),
		freeList: make([]*entry[K, V], initialSize),
	}
	lh.entryList.init()
	for i := range lh.freeList {
		lh.freeList[i] = &entry[K, V]{}
	}
	return lh
}

// Put inserts or updates [key]. The entry becomes the newest.
func (lh *Hashmap[K, V]) Put(key K, value V) {
	if e, ok := lh.entryMap[key]; ok {
		lh.entryList.moveToBack(e)
		e.Value = keyValue[K, V]{
			key:   key,
			value: value,
		}
		return
	}

	var e *entry[K, V]
	if numFree := len(lh.freeList); numFree > 0 {
		numFree--
		e = lh.freeList[numFree]
		lh.freeList = lh.freeList[:numFree]
	} else {
		e = &entry[K, V]{}
	}

	e.Value = keyValue[K, V]{
		key:   key,
		value: value,
	}
	lh.entryList.pushBack(e)
	lh.entryMap[key] = e
}

func (lh *Hashmap[K, V]) Get(key K) (V, bool) {
	if e, ok := lh.entryMap[key]; ok {
		return e.Value.value, true
	}
	return utils.Zero[V](), false
}

func (lh *Hashmap[K, V]) Delete(key K) bool {
	e, ok := lh.entryMap[key]
	if ok {
		lh.remove(e)
	}
	return ok
}

func (lh *Hashmap[K, V]) Clear() {
	for _, e := range lh.entryMap {
		lh.remove(e)
	}
}

// remove assumes that [e] is currently in the Hashmap.
func (lh *Hashmap[K, V]) remove(e *entry[K, V]) {
	delete(lh.entryMap, e.Value.key)
	lh.entryList.remove(e)
	e.Value = keyValue[K, V]{} // Free the key value pair
	lh.freeList = append(lh.freeList, e)
}

func (lh *Hashmap[K, V]) Len() int {
	return len(lh.entryMap)
}

func (lh *Hashmap[K, V]) Oldest() (K, V, bool) {
	if e := lh.entryList.front(); e != nil {
		return e.Value.key, e.Value.value, true
	}
	return utils.Zero[K](), utils.Zero[V](), false
}

func (lh *Hashmap[K, V]) Newest() (K, V, bool) {
	if e := lh.entryList.back(); e != nil {
		return e.Value.key, e.Value.value, true
	}
	return utils.Zero[K](), utils.Zero[V](), false
}

func (lh *Hashmap[K, V]) NewIterator() *Iterator[K, V] {
	return &Iterator[K, V]{lh: lh}
}

// Iterates over the keys and values in a Hashmap from oldest to newest.
// Assumes the underlying Hashmap is not modified while the iterator is in use,
// except to delete elements that have already been iterated over.
type Iterator[K comparable, V any] struct {
	lh                     *Hashmap[K, V]
	key                    K
	value                  V
	next                   *entry[K, V]
	initialized, exhausted bool
}

func (it *Iterator[K, V]) Next() bool {
	// If the iterator has been exhausted, there is no next value.
	if it.exhausted {
		it.key = utils.Zero[K]()
		it.value = utils.Zero[V]()
		it.next = nil
		return false
	}

	// If the iterator was not yet initialized, do it now.
	if !it.initialized {
		it.initialized = true
		oldest := it.lh.entryList.front()
		if oldest == nil {
			it.exhausted = true
			it.key = utils.Zero[K]()
			it.value = utils.Zero[V]()
			it.next = nil
			return false
		}
		it.next = oldest
	}

	// It's important to ensure that [it.next] is not nil
	// by not deleting elements that have not yet been iterated
	// over from [it.lh]
	it.key = it.next.Value.key
	it.value = it.next.Value.value
	it.next = it.nextEntry(it.next)
	it.exhausted = it.next == nil
	return true
}

func (it *Iterator[K, V]) nextEntry(e *entry[K, V]) *entry[K, V] {
	if e.next == nil || e.next == &it.lh.entryList.root {
		return nil
	}
	return e.next
}

func (it *Iterator[K, V]) Key() K {
	return it.key
}

func (it *Iterator[K, V]) Value() V {
	return it.value
}
