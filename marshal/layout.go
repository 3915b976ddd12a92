package marshal

import (
	"github.com/wippyai/native-bridge/errors"
	"github.com/wippyai/native-bridge/internal/abi"
	"github.com/wippyai/native-bridge/marshal/internal/layout"
	"go.bytecodealliance.org/wit"
)

// Field declares one member of a native structure.
type Field struct {
	spec layout.FieldSpec
}

// F declares a field placed after the previous one with natural alignment.
func F(name string, t wit.Type) Field {
	return Field{spec: layout.FieldSpec{Name: name, Type: t}}
}

// At declares a field pinned to an explicit byte offset. Pinned fields may
// overlap, which is how unions are expressed.
func At(name string, t wit.Type, offset uint32) Field {
	return Field{spec: layout.FieldSpec{Name: name, Type: t, Offset: offset, Pinned: true}}
}

// Array is a fixed-length inline array of n elements.
func Array(elem wit.Type, n int) wit.Type {
	types := make([]wit.Type, n)
	for i := range types {
		types[i] = elem
	}
	return &wit.TypeDef{Kind: &wit.Tuple{Types: types}}
}

// Pointer is a native pointer-sized field.
func Pointer() wit.Type {
	if abi.PointerSize == 8 {
		return wit.U64{}
	}
	return wit.U32{}
}

// FieldLayout is the resolved placement of one field.
type FieldLayout struct {
	Name   string
	Offset uint32
	Size   uint32
	Align  uint32
}

// TypeLayout is the native size, alignment and field table of one
// structure. It is immutable once built.
type TypeLayout struct {
	index  map[string]int
	name   string
	fields []FieldLayout
	size   uint32
	align  uint32
}

// NewLayout computes the layout of the named structure from its fields in
// declaration order.
func NewLayout(name string, fields ...Field) (*TypeLayout, error) {
	specs := make([]layout.FieldSpec, len(fields))
	for i, f := range fields {
		specs[i] = f.spec
	}

	s, err := layout.NewCalculator().Struct(specs)
	if err != nil {
		return nil, errors.New(errors.PhaseLayout, errors.KindInvalidInput).
			Type(name).
			Cause(err).
			Build()
	}

	l := &TypeLayout{
		index:  make(map[string]int, len(s.Fields)),
		name:   name,
		fields: make([]FieldLayout, len(s.Fields)),
		size:   s.Size,
		align:  s.Align,
	}
	for i, f := range s.Fields {
		l.fields[i] = FieldLayout{Name: f.Name, Offset: f.Offset, Size: f.Size, Align: f.Align}
		l.index[f.Name] = i
	}
	return l, nil
}

// Describe is NewLayout for layouts declared as package-level data; it
// panics on an invalid declaration.
func Describe(name string, fields ...Field) *TypeLayout {
	l, err := NewLayout(name, fields...)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the native structure name.
func (l *TypeLayout) Name() string { return l.name }

// Size returns the native size in bytes, including trailing padding.
func (l *TypeLayout) Size() uint32 { return l.size }

// Align returns the native alignment in bytes.
func (l *TypeLayout) Align() uint32 { return l.align }

// Fields returns the field table in declaration order.
func (l *TypeLayout) Fields() []FieldLayout {
	out := make([]FieldLayout, len(l.fields))
	copy(out, l.fields)
	return out
}

// Field returns the placement of the named field.
func (l *TypeLayout) Field(name string) (FieldLayout, error) {
	i, ok := l.index[name]
	if !ok {
		return FieldLayout{}, errors.FieldNotFound(l.name, name)
	}
	return l.fields[i], nil
}

// OffsetOf returns the byte offset of the named field. Unknown names fail
// with a not_found error; there is no default offset.
func (l *TypeLayout) OffsetOf(name string) (uint32, error) {
	f, err := l.Field(name)
	if err != nil {
		return 0, err
	}
	return f.Offset, nil
}

// MustOffset is OffsetOf for codecs resolving their offsets at init time.
func (l *TypeLayout) MustOffset(name string) uint32 {
	off, err := l.OffsetOf(name)
	if err != nil {
		panic(err)
	}
	return off
}

// SizeOf returns the native size of the structure c decodes.
func SizeOf[T any](c FixedLayout[T]) uint32 {
	return c.Layout().Size()
}

// OffsetOf returns the byte offset of field within the structure c decodes.
func OffsetOf[T any](c FixedLayout[T], field string) (uint32, error) {
	return c.Layout().OffsetOf(field)
}
