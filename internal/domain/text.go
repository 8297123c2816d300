package domain

import (
	"strconv"
	"strings"
)

// String renders the module in canonical HLO text.
func (m *Module) String() string {
	var b strings.Builder

	b.WriteString("HloModule ")
	b.WriteString(m.Name)
	writeAttributes(&b, m.Attributes)
	b.WriteString("\n")

	for _, c := range m.Computations {
		b.WriteString("\n")

		if c.Name == m.EntryComputation {
			b.WriteString("ENTRY ")
		}

		b.WriteString(c.String())
	}

	return b.String()
}

// String renders the computation body in HLO text.
func (c *Computation) String() string {
	var b strings.Builder

	b.WriteString(c.Name)
	b.WriteString(" {\n")

	for _, inst := range c.Instructions {
		b.WriteString("  ")

		if inst.Name == c.Root {
			b.WriteString("ROOT ")
		}

		b.WriteString(inst.String())
		b.WriteString("\n")
	}

	b.WriteString("}\n")

	return b.String()
}

// String renders a single instruction line without indentation or ROOT marker.
func (inst *Instruction) String() string {
	var b strings.Builder

	b.WriteString(inst.Name)
	b.WriteString(" = ")
	b.WriteString(inst.Shape.String())
	b.WriteString(" ")
	b.WriteString(inst.Opcode)
	b.WriteString("(")

	switch inst.Opcode {
	case OpcodeParameter:
		b.WriteString(strconv.FormatInt(inst.ParameterNumber, 10))
	case OpcodeConstant:
		b.WriteString(inst.Literal)
	default:
		b.WriteString(strings.Join(inst.Operands, ", "))
	}

	b.WriteString(")")
	writeAttributes(&b, inst.Attributes)

	return b.String()
}

// String renders the shape, e.g. "f32[2,3]{1,0}" or "(s32[], f32[4])".
func (s Shape) String() string {
	if s.IsTuple() {
		elems := make([]string, len(s.TupleShapes))
		for i, e := range s.TupleShapes {
			elems[i] = e.String()
		}

		return "(" + strings.Join(elems, ", ") + ")"
	}

	var b strings.Builder

	b.WriteString(s.ElementType.String())
	b.WriteString("[")
	b.WriteString(joinInts(s.Dimensions, ","))
	b.WriteString("]")

	if s.Layout != nil {
		b.WriteString("{")
		b.WriteString(joinInts(s.Layout.MinorToMajor, ","))

		if s.Layout.Tiling != "" {
			b.WriteString(":")
			b.WriteString(s.Layout.Tiling)
		}

		b.WriteString("}")
	}

	return b.String()
}

func writeAttributes(b *strings.Builder, attrs []Attribute) {
	for _, a := range attrs {
		b.WriteString(", ")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Value)
	}
}

func joinInts(values []int64, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatInt(v, 10)
	}

	return strings.Join(parts, sep)
}
