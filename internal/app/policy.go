package app

import "github.com/wasel/wasel/internal/core"

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a connection whose send buffer overflowed
// during a broadcast. Broadcasts themselves never abort on a slow peer.
type Policy interface {
	OnBackPressure(id core.ConnID) BackpressureAction
}

// SimplePolicy kicks slow consumers; their read loop then unwinds the
// registry and call store through the normal disconnect path.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(core.ConnID) BackpressureAction { return KickMember }
