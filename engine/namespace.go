package engine

import (
	"sync"

	"github.com/stratuspay/vecstore/metadata"
	"github.com/stratuspay/vecstore/metadata/index"
	"github.com/stratuspay/vecstore/model"
)

// partition is one isolated namespace: a mapping from vector id to
// record plus the stable insertion order used for deterministic
// tie-breaking.
//
// All access goes through the partition lock, so a record becomes
// visible only once fully constructed and a snapshot observes either
// all of a write's effects or none.
type partition struct {
	mu      sync.RWMutex
	records map[string]model.Record
	order   []string // ids in insertion order
	nextSeq uint32
	index   *index.Inverted
}

func newPartition() *partition {
	return &partition{
		records: make(map[string]model.Record),
		index:   index.New(),
	}
}

// get returns a clone of the record, if present.
func (p *partition) get(id string) (model.Record, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rec, ok := p.records[id]
	if !ok {
		return model.Record{}, false
	}
	return rec.Clone(), true
}

// put totally replaces the slot for rec.ID.
//
// A replace keeps the original sequence number and insertion position;
// a create appends to the insertion order.
func (p *partition) put(rec model.Record) {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored := rec.Clone()
	if old, ok := p.records[rec.ID]; ok {
		stored.Seq = old.Seq
		p.index.Update(old.Seq, old.Metadata, stored.Metadata)
	} else {
		stored.Seq = p.nextSeq
		p.nextSeq++
		p.order = append(p.order, rec.ID)
		p.index.Add(stored.Seq, stored.Metadata)
	}
	p.records[rec.ID] = stored
}

// delete removes the record entirely. Returns true if something was
// removed.
func (p *partition) delete(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	old, ok := p.records[id]
	if !ok {
		return false
	}
	delete(p.records, id)
	p.index.Remove(old.Seq, old.Metadata)
	for i, oid := range p.order {
		if oid == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return true
}

// snapshot returns clones of all records in stable insertion order.
func (p *partition) snapshot() []model.Record {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]model.Record, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.records[id].Clone())
	}
	return out
}

// candidates returns clones of the records matching fs, in insertion
// order. Equality/membership-only filter sets are served from the
// inverted index; anything else falls back to evaluating the filter
// against each document.
//
// The filter runs before any scoring so threshold and top-k act on the
// filtered set only.
func (p *partition) candidates(fs *metadata.FilterSet) []model.Record {
	if fs == nil || len(fs.Filters) == 0 {
		return p.snapshot()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []model.Record
	if bm, ok := p.index.Compile(fs); ok {
		for _, id := range p.order {
			rec := p.records[id]
			if bm.Contains(rec.Seq) {
				out = append(out, rec.Clone())
			}
		}
		return out
	}

	for _, id := range p.order {
		rec := p.records[id]
		if fs.Matches(rec.Metadata) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (p *partition) count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.records)
}
