package symtab

import (
	"github.com/pkg/errors"

	"github.com/coresim/coresim/go/models"
)

// Table is an insertion-ordered symbol store implementing the
// models.SymbolTable sink. The loading layer only depends on the
// interface; Table backs the tools and tests.
type Table struct {
	syms   []models.Symbol
	byName map[string]int
}

func New() *Table {
	return &Table{byName: make(map[string]int)}
}

// Insert adds a symbol. A name seen before keeps its first definition,
// matching how duplicate symbols across symbol tables behave.
func (t *Table) Insert(sym models.Symbol) error {
	if sym.Name == "" {
		return errors.New("refusing to insert unnamed symbol")
	}
	if _, ok := t.byName[sym.Name]; ok {
		return nil
	}
	t.byName[sym.Name] = len(t.syms)
	t.syms = append(t.syms, sym)
	return nil
}

func (t *Table) Len() int {
	return len(t.syms)
}

func (t *Table) Symbols() []models.Symbol {
	return t.syms
}

func (t *Table) ByName(name string) (models.Symbol, bool) {
	if i, ok := t.byName[name]; ok {
		return t.syms[i], true
	}
	return models.Symbol{}, false
}

// Filter returns symbols of one binding class in insertion order.
func (t *Table) Filter(binding models.Binding) []models.Symbol {
	var out []models.Symbol
	for _, s := range t.syms {
		if s.Binding == binding {
			out = append(out, s)
		}
	}
	return out
}

// FindNearest returns the closest symbol at or below addr, for
// symbolicating raw addresses in diagnostics.
func (t *Table) FindNearest(addr models.Addr) (models.Symbol, bool) {
	var best models.Symbol
	found := false
	for _, s := range t.syms {
		if s.Addr <= addr && (!found || s.Addr > best.Addr) {
			best = s
			found = true
		}
	}
	return best, found
}
