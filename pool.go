package abx

import "github.com/abxcodec/abx/internal/wire"

// writePool is the write-side string interning table: a string→index map
// plus the insertion-order list, so encode and a later decode observe
// indices in the same order. Bounded at maxPoolSize entries.
type writePool struct {
	index   map[string]uint16
	entries []string
}

func newWritePool() *writePool {
	return &writePool{index: make(map[string]uint16)}
}

// intern writes s as an interned-string reference to w: either the
// sentinel 0xFFFF followed by the raw bytes (first occurrence), or the
// existing pool index.
func (p *writePool) intern(w *wire.Writer, s string) error {
	if idx, ok := p.index[s]; ok {
		w.AppendUint16(idx)
		return nil
	}
	if len(p.entries) >= maxPoolSize {
		return ErrPoolOverflow
	}
	idx := uint16(len(p.entries))
	p.index[s] = idx
	p.entries = append(p.entries, s)

	w.AppendUint16(internNewEntry)
	return w.AppendUTF(s)
}

// readPool is the read-side string interning table: index→string only,
// populated in first-encounter order as the stream is decoded.
type readPool struct {
	entries []string
}

// resolve reads an interned-string reference from r: either a new raw
// string (sentinel 0xFFFF, appended to the pool) or an existing entry.
func (p *readPool) resolve(r *wire.Reader) (string, error) {
	idx, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	if idx == internNewEntry {
		s, err := r.ReadUTF()
		if err != nil {
			return "", err
		}
		p.entries = append(p.entries, s)
		return s, nil
	}
	if int(idx) >= len(p.entries) {
		return "", ErrBadInternIndex
	}
	return p.entries[idx], nil
}
