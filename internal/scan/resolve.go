package scan

import (
	"github.com/dshills/kakmotion/internal/engine/buffer"
	"github.com/dshills/kakmotion/internal/unit"
)

// Resolve completes the first range of fwd when its edge behind the origin
// (start for forward scans, end for backward scans) is unknown and wanted
// needs it. It scans from the same origin in the opposite direction, skips
// ranges identical to the first one, and fuses the first range with the
// nearest remaining range. The rest of fwd passes through lazily.
func Resolve(wanted Boundary, fwd Iterator, doc buffer.Document, from buffer.Position, def unit.Definition, forward bool) Iterator {
	if !fwd.Next() {
		return &sliceIter{}
	}
	first := fwd.Range()
	if first.Sentinel || !requiresBehind(wanted, forward) || behind(first, forward).Known {
		return &prepended{first: first, rest: fwd}
	}

	back := Units(doc, from, def, !forward)
	for back.Next() {
		r := back.Range()
		if r.BoundsMatch(first) {
			continue
		}
		first = FuseRanges(first, r)
		break
	}
	return &prepended{first: first, rest: fwd}
}

// requiresBehind reports whether a consumer reading wanted edges needs the
// edge behind the origin.
func requiresBehind(wanted Boundary, forward bool) bool {
	if forward {
		return wanted != End
	}
	return wanted != Start
}

func behind(r Range, forward bool) Edge {
	if forward {
		return r.Start
	}
	return r.End
}

// prepended yields first and then the remainder of rest.
type prepended struct {
	first   Range
	rest    Iterator
	started bool
	cur     Range
}

func (p *prepended) Next() bool {
	if !p.started {
		p.started = true
		p.cur = p.first
		return true
	}
	if !p.rest.Next() {
		return false
	}
	p.cur = p.rest.Range()
	return true
}

func (p *prepended) Range() Range {
	return p.cur
}
