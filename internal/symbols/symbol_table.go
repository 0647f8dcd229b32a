package symbols

import (
	"tsbind/internal/source"
)

// SymbolTable maps names to symbols. Iteration follows the order in which
// keys were first written; replacing a key keeps its position.
type SymbolTable struct {
	index map[source.StringID]SymbolID
	names []source.StringID
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{index: make(map[source.StringID]SymbolID)}
}

func (t *SymbolTable) Get(name source.StringID) (SymbolID, bool) {
	if t == nil {
		return NoSymbolID, false
	}
	id, ok := t.index[name]
	return id, ok
}

func (t *SymbolTable) Has(name source.StringID) bool {
	_, ok := t.Get(name)
	return ok
}

// Set stores id under name, replacing any previous symbol in place.
func (t *SymbolTable) Set(name source.StringID, id SymbolID) {
	if _, ok := t.index[name]; !ok {
		t.names = append(t.names, name)
	}
	t.index[name] = id
}

func (t *SymbolTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Names returns the keys in table order.
func (t *SymbolTable) Names() []source.StringID {
	if t == nil {
		return nil
	}
	return t.names
}

func (t *SymbolTable) Each(fn func(source.StringID, SymbolID)) {
	if t == nil {
		return
	}
	for _, name := range t.names {
		fn(name, t.index[name])
	}
}

// NameSet is an insertion-ordered set of names.
type NameSet struct {
	index map[source.StringID]struct{}
	names []source.StringID
}

func NewNameSet() *NameSet {
	return &NameSet{index: make(map[source.StringID]struct{})}
}

func (s *NameSet) Add(name source.StringID) {
	if _, ok := s.index[name]; ok {
		return
	}
	s.index[name] = struct{}{}
	s.names = append(s.names, name)
}

func (s *NameSet) Has(name source.StringID) bool {
	if s == nil {
		return false
	}
	_, ok := s.index[name]
	return ok
}

func (s *NameSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

func (s *NameSet) Names() []source.StringID {
	if s == nil {
		return nil
	}
	return s.names
}
