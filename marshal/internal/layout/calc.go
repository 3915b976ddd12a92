package layout

import (
	"fmt"

	"github.com/wippyai/native-bridge/internal/abi"
	"go.bytecodealliance.org/wit"
)

// Info is the size and alignment of one type.
type Info struct {
	Size  uint32
	Align uint32
}

// FieldSpec declares one field of a structure. Offset is used only when
// Pinned is set.
type FieldSpec struct {
	Type   wit.Type
	Name   string
	Offset uint32
	Pinned bool
}

// Field is a resolved field placement.
type Field struct {
	Name   string
	Offset uint32
	Size   uint32
	Align  uint32
}

// Struct is a resolved structure layout.
type Struct struct {
	Fields []Field
	Info
}

type Calculator struct {
	cache map[*wit.TypeDef]Info
}

func NewCalculator() *Calculator {
	return &Calculator{
		cache: make(map[*wit.TypeDef]Info),
	}
}

// Calculate returns the C layout of t. Types without a C representation
// report Size 0 and Align 0.
func (c *Calculator) Calculate(t wit.Type) Info {
	switch typ := t.(type) {
	case wit.U8, wit.S8, wit.Bool:
		return Info{Size: 1, Align: 1}
	case wit.U16, wit.S16:
		return Info{Size: 2, Align: 2}
	case wit.U32, wit.S32, wit.F32, wit.Char:
		return Info{Size: 4, Align: 4}
	case wit.U64, wit.S64, wit.F64:
		return Info{Size: 8, Align: 8}
	case *wit.TypeDef:
		return c.calculateTypeDef(typ)
	default:
		return Info{}
	}
}

func (c *Calculator) calculateTypeDef(t *wit.TypeDef) Info {
	if cached, ok := c.cache[t]; ok {
		return cached
	}

	var info Info

	switch kind := t.Kind.(type) {
	case *wit.Record:
		types := make([]wit.Type, len(kind.Fields))
		for i, f := range kind.Fields {
			types[i] = f.Type
		}
		info = c.sequence(types)
	case *wit.Tuple:
		info = c.sequence(kind.Types)
	case *wit.Enum:
		info = Info{Size: 4, Align: 4}
	case wit.Type:
		info = c.Calculate(kind)
	}

	c.cache[t] = info
	return info
}

func (c *Calculator) sequence(types []wit.Type) Info {
	maxAlign := uint32(1)
	offset := uint32(0)

	for _, typ := range types {
		elem := c.Calculate(typ)
		if elem.Align == 0 {
			return Info{}
		}
		offset = abi.AlignTo(offset, elem.Align)
		if elem.Align > maxAlign {
			maxAlign = elem.Align
		}
		offset += elem.Size
	}

	return Info{
		Size:  abi.AlignTo(offset, maxAlign),
		Align: maxAlign,
	}
}

// Struct lays out specs in declaration order.
func (c *Calculator) Struct(specs []FieldSpec) (Struct, error) {
	fields := make([]Field, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))
	maxAlign := uint32(1)
	end := uint32(0)

	for _, spec := range specs {
		if spec.Name == "" {
			return Struct{}, fmt.Errorf("field %d has no name", len(fields))
		}
		if _, dup := seen[spec.Name]; dup {
			return Struct{}, fmt.Errorf("duplicate field %q", spec.Name)
		}
		seen[spec.Name] = struct{}{}

		info := c.Calculate(spec.Type)
		if info.Align == 0 {
			return Struct{}, fmt.Errorf("field %q: type has no native layout", spec.Name)
		}

		offset := abi.AlignTo(end, info.Align)
		if spec.Pinned {
			if spec.Offset%info.Align != 0 {
				return Struct{}, fmt.Errorf("field %q: offset %d not aligned to %d", spec.Name, spec.Offset, info.Align)
			}
			offset = spec.Offset
		}

		fieldEnd, ok := abi.SafeAddU32(offset, info.Size)
		if !ok {
			return Struct{}, fmt.Errorf("field %q: offset overflow", spec.Name)
		}
		if fieldEnd > end {
			end = fieldEnd
		}
		if info.Align > maxAlign {
			maxAlign = info.Align
		}

		fields = append(fields, Field{
			Name:   spec.Name,
			Offset: offset,
			Size:   info.Size,
			Align:  info.Align,
		})
	}

	return Struct{
		Fields: fields,
		Info: Info{
			Size:  abi.AlignTo(end, maxAlign),
			Align: maxAlign,
		},
	}, nil
}
