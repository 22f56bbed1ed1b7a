// Package intctrl wraps a third-party interrupt-controller model behind
// the simulator's interrupt entry points. The wrapper is pure
// pass-through: it owns no address-mapped state and costs nothing on the
// memory path.
package intctrl

import "github.com/coresim/coresim/go/models"

// Model is the external interrupt-controller implementation the wrapper
// forwards into.
type Model interface {
	RaiseInt(num uint32)
	LowerInt(num uint32)
	RaisePPInt(num uint32, cpu int)
	LowerPPInt(num uint32, cpu int)
}

// IntSignal is the wrapper's single output port.
type IntSignal struct {
	model Model
}

func (s *IntSignal) Raise(num uint32) {
	if s.model != nil {
		s.model.RaiseInt(num)
	}
}

func (s *IntSignal) Lower(num uint32) {
	if s.model != nil {
		s.model.LowerInt(num)
	}
}

type Passthrough struct {
	signal IntSignal
}

func NewPassthrough(model Model) *Passthrough {
	return &Passthrough{signal: IntSignal{model: model}}
}

func (p *Passthrough) SendInt(num uint32) {
	p.signal.Raise(num)
}

func (p *Passthrough) ClearInt(num uint32) {
	p.signal.Lower(num)
}

func (p *Passthrough) SendPPInt(num uint32, cpu int) {
	if p.signal.model != nil {
		p.signal.model.RaisePPInt(num, cpu)
	}
}

func (p *Passthrough) ClearPPInt(num uint32, cpu int) {
	if p.signal.model != nil {
		p.signal.model.LowerPPInt(num, cpu)
	}
}

func (p *Passthrough) Signal() *IntSignal {
	return &p.signal
}

// AddrRanges is empty: the wrapper has no address-mapped behavior.
func (p *Passthrough) AddrRanges() []models.AddrRange {
	return nil
}

// ReadMem and WriteMem are zero-cost no-ops on the pass-through.
func (p *Passthrough) ReadMem(addr models.Addr, b []byte) error {
	return nil
}

func (p *Passthrough) WriteMem(addr models.Addr, b []byte) error {
	return nil
}
