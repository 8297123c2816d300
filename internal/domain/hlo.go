// Package domain provides core models and interfaces for the HLO converter.
package domain

// Module represents a parsed HLO module.
type Module struct {
	Name             string
	Attributes       []Attribute // Header attributes (e.g. entry_computation_layout)
	Computations     []*Computation
	EntryComputation string
}

// Computation represents a named HLO computation.
type Computation struct {
	Name         string
	Instructions []*Instruction
	Root         string // Name of the root instruction
}

// Instruction represents a single HLO instruction.
type Instruction struct {
	Name            string
	Opcode          string
	Shape           Shape
	Operands        []string
	ParameterNumber int64  // Only meaningful for the parameter opcode
	Literal         string // Raw literal text for the constant opcode
	Attributes      []Attribute
}

// Attribute is a key=value pair kept in source order. Values are stored verbatim.
type Attribute struct {
	Key   string
	Value string
}

// Shape describes the result type of an instruction.
type Shape struct {
	ElementType PrimitiveType
	Dimensions  []int64
	TupleShapes []Shape
	Layout      *Layout
}

// Layout holds the physical dimension order of an array shape.
type Layout struct {
	MinorToMajor []int64
	// Tiling is the text after ':' in a layout such as "{1,0:T(8,128)}", kept verbatim.
	Tiling string
}

// Literal is a concrete value captured alongside a module (e.g. snapshot arguments).
type Literal struct {
	Shape Shape
	Preds []bool
	S32s  []int32
	S64s  []int64
	F32s  []float32
	F64s  []float64
}

// ModuleAndArguments is what a loader hands back. Only the module is converted.
type ModuleAndArguments struct {
	Module    *Module
	Arguments []Literal
}

// Opcodes with special argument handling.
const (
	OpcodeParameter = "parameter"
	OpcodeConstant  = "constant"
)

// Entry returns the entry computation, or nil if it does not exist.
func (m *Module) Entry() *Computation {
	return m.Computation(m.EntryComputation)
}

// Computation looks up a computation by name.
func (m *Module) Computation(name string) *Computation {
	for _, c := range m.Computations {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// Instruction looks up an instruction by name.
func (c *Computation) Instruction(name string) *Instruction {
	for _, inst := range c.Instructions {
		if inst.Name == name {
			return inst
		}
	}

	return nil
}

// IsTuple reports whether the shape is a tuple.
func (s Shape) IsTuple() bool {
	return s.ElementType == Tuple
}

// Rank returns the number of dimensions of an array shape.
func (s Shape) Rank() int {
	return len(s.Dimensions)
}
