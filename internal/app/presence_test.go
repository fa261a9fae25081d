package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasel/wasel/internal/core"
)

func TestPresenceJoinOrder(t *testing.T) {
	p := NewPresenceTable()
	p.Join("c1", "Alice")
	p.Join("c2", "Bob")
	p.Join("c3", "Cara")

	assert.Equal(t, []string{"Alice", "Bob", "Cara"}, p.Names())
	assert.Equal(t, 3, p.Len())
}

func TestPresenceRejoinKeepsPosition(t *testing.T) {
	p := NewPresenceTable()
	p.Join("c1", "Alice")
	p.Join("c2", "Bob")

	// Same connection joining again renames in place.
	p.Join("c1", "Alicia")

	assert.Equal(t, []string{"Alicia", "Bob"}, p.Names())
}

func TestPresenceLeave(t *testing.T) {
	p := NewPresenceTable()
	p.Join("c1", "Alice")
	p.Join("c2", "Bob")

	name, ok := p.Leave("c1")
	require.True(t, ok)
	assert.Equal(t, "Alice", name)
	assert.Equal(t, []string{"Bob"}, p.Names())

	_, ok = p.Leave("c1")
	assert.False(t, ok)
}

func TestPresenceResolveFirstMatch(t *testing.T) {
	p := NewPresenceTable()
	p.Join("c1", "Alice")
	p.Join("c2", "Bob")
	// Duplicate display names are allowed; resolution is first-match in
	// join order.
	p.Join("c3", "Bob")

	id, ok := p.ResolveByName("Bob")
	require.True(t, ok)
	assert.Equal(t, core.ConnID("c2"), id)

	_, ok = p.ResolveByName("Nobody")
	assert.False(t, ok)
}

func TestPresenceName(t *testing.T) {
	p := NewPresenceTable()
	p.Join("c1", "Alice")

	name, ok := p.Name("c1")
	require.True(t, ok)
	assert.Equal(t, "Alice", name)

	_, ok = p.Name("c9")
	assert.False(t, ok)
}
