package taxon

import "sync/atomic"

// bytesData, arrayData and objectData are the reference-counted, copy-on-write
// containers backing the string, binary, array and object alternatives of a
// Value. Go's garbage collector owns the actual memory; the refcount here
// exists only to answer one question cheaply during Release and during a
// mutating access: is this container aliased by another live Value, or is
// the current Value its sole owner?
//
// The count starts at 1 when a container is first built and is bumped by
// Clone. A plain Go struct copy of a Value (`v2 := v1`) does not go through
// Clone and therefore does not bump the count; see the COW note in
// DESIGN.md. That never causes memory unsafety (the GC still tracks the
// underlying slice/map independently of this count) — at worst it makes the
// "uniquely owned" detection conservative in the wrong direction for code
// that aliases Values without calling Clone.
type refcount struct {
	n atomic.Int32
}

func newRefcount() refcount {
	var r refcount
	r.n.Store(1)
	return r
}

// retain records an additional owner.
func (r *refcount) retain() {
	r.n.Add(1)
}

// releaseOwner drops one owner. It reports true when the caller was the
// last (or only) owner, meaning the caller is responsible for tearing down
// the payload; it reports false when other owners remain, in which case the
// payload must be left untouched.
func (r *refcount) releaseOwner() bool {
	for {
		cur := r.n.Load()
		if cur <= 1 {
			if r.n.CompareAndSwap(cur, 0) {
				return true
			}
			continue
		}
		if r.n.CompareAndSwap(cur, cur-1) {
			return false
		}
	}
}

// shared reports whether more than one owner currently exists.
func (r *refcount) shared() bool {
	return r.n.Load() > 1
}

type bytesData struct {
	refcount
	data []byte
}

func newBytesData(b []byte) *bytesData {
	return &bytesData{refcount: newRefcount(), data: b}
}

type arrayData struct {
	refcount
	items []Value
}

func newArrayData(items []Value) *arrayData {
	return &arrayData{refcount: newRefcount(), items: items}
}

type objectData struct {
	refcount
	entries map[string]Value
}

func newObjectData(entries map[string]Value) *objectData {
	if entries == nil {
		entries = map[string]Value{}
	}
	return &objectData{refcount: newRefcount(), entries: entries}
}

// detachArray returns an arrayData that the caller may mutate in place
// without disturbing other owners: the same pointer if it is already
// uniquely owned, or a fresh shallow copy (copy-on-write) otherwise.
func detachArray(a *arrayData) *arrayData {
	if a == nil {
		return newArrayData(nil)
	}
	if !a.shared() {
		return a
	}
	a.n.Add(-1)
	items := make([]Value, len(a.items))
	copy(items, a.items)
	return newArrayData(items)
}

// detachObject is the object-container analog of detachArray.
func detachObject(o *objectData) *objectData {
	if o == nil {
		return newObjectData(nil)
	}
	if !o.shared() {
		return o
	}
	o.n.Add(-1)
	entries := make(map[string]Value, len(o.entries))
	for k, v := range o.entries {
		entries[k] = v
	}
	return newObjectData(entries)
}

// detachBytes is the byte-string container analog, used before an in-place
// mutation (there is currently no such mutator exposed, but Clone relies on
// the same retain/release discipline).
func detachBytes(b *bytesData) *bytesData {
	if b == nil {
		return newBytesData(nil)
	}
	if !b.shared() {
		return b
	}
	b.n.Add(-1)
	data := make([]byte, len(b.data))
	copy(data, b.data)
	return newBytesData(data)
}
