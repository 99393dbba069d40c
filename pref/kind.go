package pref

// Kind is the stored type of a preference.
type Kind int

const (
	// KindUnset means the preference does not exist.
	KindUnset Kind = iota
	KindString
	KindInt
	KindBool
	// KindInvalid means the store holds a value of some other type.
	KindInvalid
)

var kindNames = map[Kind]string{
	KindUnset:   "unset",
	KindString:  "string",
	KindInt:     "int",
	KindBool:    "bool",
	KindInvalid: "invalid",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "invalid"
}

// ParseKind is the inverse of Kind.String. Unknown names map to KindInvalid.
func ParseKind(name string) Kind {
	for k, n := range kindNames {
		if n == name {
			return k
		}
	}
	return KindInvalid
}

// Typed reports whether k is one of the three storable kinds.
func (k Kind) Typed() bool {
	return k == KindString || k == KindInt || k == KindBool
}
