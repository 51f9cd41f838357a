package types

// Identical reports whether x and y denote the same type. Literal bits are
// ignored; a Constant is identical only to a Constant.
func Identical(x, y Symbol) bool {
	if x.kind != y.kind {
		return false
	}
	switch x.kind {
	case Primitive, Array:
		return x.base == y.base
	case Constant:
		return x.inner == y.inner && x.base == y.base
	}
	panic(badKind(x.kind))
}

// AssignableFrom reports whether a value of type from may be stored in a
// location of type s.
//
// An unknown symbol on either side is compatible. Integer widens to double
// but not the reverse. null may be stored in Strings and arrays. Otherwise
// the match is exact: primitives by kind, arrays by element type.
// Constants on either side delegate to the wrapped symbol.
func (s Symbol) AssignableFrom(from Symbol) bool {
	if s.IsUnknown() || from.IsUnknown() {
		return true
	}
	switch s.kind {
	case Primitive:
		f := from.Underlying()
		switch f.kind {
		case Primitive:
			if f.base == s.base {
				return true
			}
			if s.base == Double && f.base == Integer {
				return true
			}
			return s.base == String && f.base == Null
		case Array:
			return false
		}
		panic(badKind(f.kind))
	case Array:
		f := from.Underlying()
		switch f.kind {
		case Primitive:
			return f.base == Null
		case Array:
			return f.base == s.base
		}
		panic(badKind(f.kind))
	case Constant:
		return s.Underlying().AssignableFrom(from)
	}
	panic(badKind(s.kind))
}

// Comparable reports whether x and y may be compared with == or !=:
// either must be assignable to the other.
func Comparable(x, y Symbol) bool {
	return x.AssignableFrom(y) || y.AssignableFrom(x)
}
