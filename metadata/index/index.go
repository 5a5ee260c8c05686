// Package index provides a Roaring-bitmap inverted index that
// accelerates equality and membership metadata filters.
package index

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/stratuspay/vecstore/metadata"
)

// Inverted maps attribute key/value pairs to the set of partition-local
// sequence numbers carrying that pair.
//
// Supported operators for compilation:
//   - OpEqual
//   - OpIn (array of Values)
//
// Filter sets using any other operator fall back to scanning and
// evaluating metadata.FilterSet directly.
type Inverted struct {
	mu sync.RWMutex

	// key -> valueKey -> bitmap of sequence numbers
	fields map[string]map[string]*roaring.Bitmap
}

// New creates an empty inverted index.
func New() *Inverted {
	return &Inverted{fields: make(map[string]map[string]*roaring.Bitmap)}
}

// Add indexes a document under the given sequence number.
func (ix *Inverted) Add(seq uint32, doc metadata.Document) {
	if ix == nil || len(doc) == 0 {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.addLocked(seq, doc)
}

// Remove drops a document's postings for the given sequence number.
func (ix *Inverted) Remove(seq uint32, doc metadata.Document) {
	if ix == nil || len(doc) == 0 {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.removeLocked(seq, doc)
}

// Update replaces oldDoc's postings with newDoc's in one lock hold.
func (ix *Inverted) Update(seq uint32, oldDoc, newDoc metadata.Document) {
	if ix == nil {
		return
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if len(oldDoc) > 0 {
		ix.removeLocked(seq, oldDoc)
	}
	if len(newDoc) > 0 {
		ix.addLocked(seq, newDoc)
	}
}

func (ix *Inverted) addLocked(seq uint32, doc metadata.Document) {
	for k, v := range doc {
		vm, ok := ix.fields[k]
		if !ok {
			vm = make(map[string]*roaring.Bitmap)
			ix.fields[k] = vm
		}
		vk := v.Key()
		bm, ok := vm[vk]
		if !ok {
			bm = roaring.New()
			vm[vk] = bm
		}
		bm.Add(seq)
	}
}

func (ix *Inverted) removeLocked(seq uint32, doc metadata.Document) {
	for k, v := range doc {
		vm, ok := ix.fields[k]
		if !ok {
			continue
		}
		vk := v.Key()
		bm, ok := vm[vk]
		if !ok {
			continue
		}
		bm.Remove(seq)
		if bm.IsEmpty() {
			delete(vm, vk)
		}
		if len(vm) == 0 {
			delete(ix.fields, k)
		}
	}
}

// Compile attempts to compile a FilterSet into a bitmap of matching
// sequence numbers. ok=false means at least one condition cannot be
// served by the index and the caller must fall back to scanning.
//
// The returned bitmap is owned by the caller.
func (ix *Inverted) Compile(fs *metadata.FilterSet) (*roaring.Bitmap, bool) {
	if ix == nil || fs == nil || len(fs.Filters) == 0 {
		return nil, false
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var acc *roaring.Bitmap
	for _, f := range fs.Filters {
		var bm *roaring.Bitmap
		switch f.Operator {
		case metadata.OpEqual:
			bm = ix.lookupLocked(f.Key, f.Value)
		case metadata.OpIn:
			items, ok := f.Value.AsArray()
			if !ok {
				return nil, false
			}
			bm = roaring.New()
			for _, item := range items {
				if hit := ix.lookupLocked(f.Key, item); hit != nil {
					bm.Or(hit)
				}
			}
		default:
			return nil, false
		}

		if bm == nil {
			// No postings at all: the conjunction is empty.
			return roaring.New(), true
		}
		if acc == nil {
			acc = bm.Clone()
		} else {
			acc.And(bm)
		}
		if acc.IsEmpty() {
			return acc, true
		}
	}
	return acc, true
}

func (ix *Inverted) lookupLocked(key string, v metadata.Value) *roaring.Bitmap {
	vm, ok := ix.fields[key]
	if !ok {
		return nil
	}
	return vm[v.Key()]
}
