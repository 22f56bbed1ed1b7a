package models

// Binding is the visibility class of a program symbol.
type Binding int

const (
	GlobalBinding Binding = iota
	LocalBinding
	WeakBinding
)

func (b Binding) String() string {
	switch b {
	case GlobalBinding:
		return "global"
	case LocalBinding:
		return "local"
	case WeakBinding:
		return "weak"
	}
	return "unknown"
}

type Symbol struct {
	Name    string
	Addr    Addr
	Binding Binding
}

// SymbolTable is the external sink object files drain their symbols into.
// Storage is up to the embedding system; this layer only inserts.
type SymbolTable interface {
	Insert(sym Symbol) error
}
