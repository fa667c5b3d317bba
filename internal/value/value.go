// Package value defines the tree model shared by the parser, the
// serializer and the template engine: a tagged union of scalars and
// mutable, insertion-ordered containers.
package value

// Kind discriminates the members of the Value union.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// Value is a node in a parsed document tree. Scalars are immutable;
// containers are mutated in place through their methods.
type Value interface {
	Kind() Kind
	// Clone returns a deep structural copy. Containers are copied
	// recursively so the copy shares no mutable state with the original.
	Clone() Value
}

// Null represents the absence of a value.
type Null struct{}

func (Null) Kind() Kind   { return KindNull }
func (Null) Clone() Value { return Null{} }

// Bool is a boolean scalar.
type Bool bool

func (b Bool) Kind() Kind   { return KindBool }
func (b Bool) Clone() Value { return b }

// Int is an integer scalar.
type Int int64

func (i Int) Kind() Kind   { return KindInt }
func (i Int) Clone() Value { return i }

// Float is a floating-point scalar.
type Float float64

func (f Float) Kind() Kind   { return KindFloat }
func (f Float) Clone() Value { return f }

// String is a text scalar.
type String string

func (s String) Kind() Kind   { return KindString }
func (s String) Clone() Value { return s }

// Sequence is an ordered list of values.
type Sequence struct {
	Items []Value
}

// NewSequence returns an empty sequence.
func NewSequence() *Sequence { return &Sequence{} }

func (s *Sequence) Kind() Kind { return KindSequence }

func (s *Sequence) Clone() Value {
	out := &Sequence{Items: make([]Value, len(s.Items))}
	for i, item := range s.Items {
		out.Items[i] = item.Clone()
	}
	return out
}

// Len returns the number of elements.
func (s *Sequence) Len() int { return len(s.Items) }

// Append adds v to the end of the sequence.
func (s *Sequence) Append(v Value) { s.Items = append(s.Items, v) }

// Mapping is a collection of key/value entries with unique keys and
// stable insertion order.
type Mapping struct {
	entries []entry
}

type entry struct {
	key string
	val Value
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping { return &Mapping{} }

func (m *Mapping) Kind() Kind { return KindMapping }

func (m *Mapping) Clone() Value {
	out := &Mapping{entries: make([]entry, len(m.entries))}
	for i, e := range m.entries {
		out.entries[i] = entry{key: e.key, val: e.val.Clone()}
	}
	return out
}

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.entries) }

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	for _, e := range m.entries {
		if e.key == key {
			return e.val, true
		}
	}
	return nil, false
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores v under key, replacing an existing entry in place so the
// original insertion position is kept.
func (m *Mapping) Set(key string, v Value) {
	for i, e := range m.entries {
		if e.key == key {
			m.entries[i].val = v
			return
		}
	}
	m.entries = append(m.entries, entry{key: key, val: v})
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	keys := make([]string, len(m.entries))
	for i, e := range m.entries {
		keys[i] = e.key
	}
	return keys
}

// GetString returns the entry under key when it is a String scalar.
func (m *Mapping) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	return string(s), ok
}

// Equal reports structural equality of two trees: same kinds, same
// scalar values, same element order and, for mappings, the same keys in
// the same insertion order.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null:
		return true
	case Bool:
		return av == b.(Bool)
	case Int:
		return av == b.(Int)
	case Float:
		return av == b.(Float)
	case String:
		return av == b.(String)
	case *Sequence:
		bv := b.(*Sequence)
		if len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equal(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case *Mapping:
		bv := b.(*Mapping)
		if len(av.entries) != len(bv.entries) {
			return false
		}
		for i := range av.entries {
			if av.entries[i].key != bv.entries[i].key {
				return false
			}
			if !Equal(av.entries[i].val, bv.entries[i].val) {
				return false
			}
		}
		return true
	}
	return false
}

// VisitFunc is called for every node reached by Walk. parent is nil for
// the root; key is the string key for mapping entries and the int index
// for sequence elements. Callbacks may replace the visited node through
// the parent container.
type VisitFunc func(v Value, parent Value, key any)

// Walk traverses the tree in pre-order, visiting every node with a
// reference to its parent container. Mapping entries are iterated over a
// key snapshot, so a callback may rewrite entries of the mapping it is
// visiting without disturbing the traversal.
func Walk(root Value, fn VisitFunc) {
	walk(root, nil, nil, fn)
}

func walk(v Value, parent Value, key any, fn VisitFunc) {
	fn(v, parent, key)
	switch node := v.(type) {
	case *Sequence:
		for i := range node.Items {
			walk(node.Items[i], node, i, fn)
		}
	case *Mapping:
		for _, k := range node.Keys() {
			if child, ok := node.Get(k); ok {
				walk(child, node, k, fn)
			}
		}
	}
}
