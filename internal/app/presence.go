package app

import (
	"github.com/wasel/wasel/internal/core"
)

// PresenceTable maps live connections to display names. It keeps join
// order so users_list snapshots and first-match name resolution are
// deterministic.
//
// The table is owned by the Coordinator and guarded by its mutex; it has
// no locking of its own.
type PresenceTable struct {
	byConn map[core.ConnID]string
	order  []core.ConnID
}

func NewPresenceTable() *PresenceTable {
	return &PresenceTable{
		byConn: make(map[core.ConnID]string),
	}
}

// Join records or updates the mapping for a connection. A re-join keeps
// the connection's original position in join order.
func (p *PresenceTable) Join(id core.ConnID, name string) {
	if _, ok := p.byConn[id]; !ok {
		p.order = append(p.order, id)
	}
	p.byConn[id] = name
}

// Leave removes the mapping if present and reports the name it had.
func (p *PresenceTable) Leave(id core.ConnID) (string, bool) {
	name, ok := p.byConn[id]
	if !ok {
		return "", false
	}
	delete(p.byConn, id)
	for i, c := range p.order {
		if c == id {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
	return name, true
}

// Name returns the display name a connection joined with.
func (p *PresenceTable) Name(id core.ConnID) (string, bool) {
	name, ok := p.byConn[id]
	return name, ok
}

// ResolveByName finds the first connection with a matching display name,
// in join order. Ambiguous under duplicate names; earliest joiner wins.
func (p *PresenceTable) ResolveByName(name string) (core.ConnID, bool) {
	for _, id := range p.order {
		if p.byConn[id] == name {
			return id, true
		}
	}
	return "", false
}

// Names snapshots all display names in join order.
func (p *PresenceTable) Names() []string {
	out := make([]string, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.byConn[id])
	}
	return out
}

func (p *PresenceTable) Len() int { return len(p.byConn) }
