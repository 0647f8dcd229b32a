package symbols

// SymbolID indexes a Symbol in its Symbols arena.
type SymbolID uint32

const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// Tristate is an optional boolean.
type Tristate uint8

const (
	Unknown Tristate = iota
	True
	False
)

func TristateOf(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// And combines two known values; Unknown on either side adopts the other.
func (t Tristate) And(b bool) Tristate {
	if t == Unknown {
		return TristateOf(b)
	}
	return TristateOf(t == True && b)
}

func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	}
	return "unknown"
}
