package hloproto

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

var textOptions = prototextMarshalOptions()

// Record is an HloProto structured record.
type Record struct {
	msg *dynamicpb.Message
}

// FromModule converts a module into its HloProto record.
func FromModule(m *domain.Module) (*Record, error) {
	md, err := messageDescriptor(hloProtoName)
	if err != nil {
		return nil, err
	}

	msg := dynamicpb.NewMessage(md)
	writeModule(mutableMessage(msg, "hlo_module"), m)

	return &Record{msg: msg}, nil
}

// ToText serializes the record in protobuf text format.
func (r *Record) ToText() ([]byte, error) {
	out, err := textOptions.Marshal(r.msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal HloProto as text: %w", err)
	}

	return out, nil
}

// ToBinary serializes the record in protobuf wire format.
func (r *Record) ToBinary() ([]byte, error) {
	out, err := proto.MarshalOptions{Deterministic: true}.Marshal(r.msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal HloProto: %w", err)
	}

	return out, nil
}

// Module converts the record back into a module.
func (r *Record) Module() (*domain.Module, error) {
	if !has(r.msg, "hlo_module") {
		return nil, fmt.Errorf("HloProto has no hlo_module")
	}

	return readModule(get(r.msg, "hlo_module").Message())
}

func writeModule(msg protoreflect.Message, m *domain.Module) {
	setString(msg, "name", m.Name)
	setString(msg, "entry_computation_name", m.EntryComputation)
	writeAttributes(msg, m.Attributes)

	computations := mutableList(msg, "computations")
	for _, c := range m.Computations {
		elem := computations.NewElement()
		cmsg := elem.Message()

		setString(cmsg, "name", c.Name)
		setString(cmsg, "root_name", c.Root)

		instructions := mutableList(cmsg, "instructions")
		for _, inst := range c.Instructions {
			ielem := instructions.NewElement()
			writeInstruction(ielem.Message(), inst)
			instructions.Append(ielem)
		}

		computations.Append(elem)
	}
}

func writeInstruction(msg protoreflect.Message, inst *domain.Instruction) {
	setString(msg, "name", inst.Name)
	setString(msg, "opcode", inst.Opcode)
	writeShape(mutableMessage(msg, "shape"), inst.Shape)

	operands := mutableList(msg, "operand_names")
	for _, op := range inst.Operands {
		operands.Append(protoreflect.ValueOfString(op))
	}

	if inst.ParameterNumber != 0 {
		msg.Set(field(msg, "parameter_number"), protoreflect.ValueOfInt64(inst.ParameterNumber))
	}

	setString(msg, "literal", inst.Literal)
	writeAttributes(msg, inst.Attributes)
}

func writeShape(msg protoreflect.Message, s domain.Shape) {
	msg.Set(field(msg, "element_type"), protoreflect.ValueOfEnum(protoreflect.EnumNumber(s.ElementType)))

	dims := mutableList(msg, "dimensions")
	for _, d := range s.Dimensions {
		dims.Append(protoreflect.ValueOfInt64(d))
	}

	tuple := mutableList(msg, "tuple_shapes")
	for _, e := range s.TupleShapes {
		elem := tuple.NewElement()
		writeShape(elem.Message(), e)
		tuple.Append(elem)
	}

	if s.Layout != nil {
		layout := mutableMessage(msg, "layout")

		minorToMajor := mutableList(layout, "minor_to_major")
		for _, d := range s.Layout.MinorToMajor {
			minorToMajor.Append(protoreflect.ValueOfInt64(d))
		}

		setString(layout, "tiling", s.Layout.Tiling)
	}
}

func writeAttributes(msg protoreflect.Message, attrs []domain.Attribute) {
	list := mutableList(msg, "attributes")
	for _, a := range attrs {
		elem := list.NewElement()
		setString(elem.Message(), "key", a.Key)
		setString(elem.Message(), "value", a.Value)
		list.Append(elem)
	}
}

func readModule(msg protoreflect.Message) (*domain.Module, error) {
	m := &domain.Module{
		Name:             getString(msg, "name"),
		EntryComputation: getString(msg, "entry_computation_name"),
		Attributes:       readAttributes(msg),
	}

	computations := get(msg, "computations").List()
	for i := 0; i < computations.Len(); i++ {
		cmsg := computations.Get(i).Message()
		c := &domain.Computation{
			Name: getString(cmsg, "name"),
			Root: getString(cmsg, "root_name"),
		}

		instructions := get(cmsg, "instructions").List()
		for j := 0; j < instructions.Len(); j++ {
			inst, err := readInstruction(instructions.Get(j).Message())
			if err != nil {
				return nil, fmt.Errorf("computation %q: %w", c.Name, err)
			}

			c.Instructions = append(c.Instructions, inst)
		}

		m.Computations = append(m.Computations, c)
	}

	return m, nil
}

func readInstruction(msg protoreflect.Message) (*domain.Instruction, error) {
	inst := &domain.Instruction{
		Name:            getString(msg, "name"),
		Opcode:          getString(msg, "opcode"),
		ParameterNumber: get(msg, "parameter_number").Int(),
		Literal:         getString(msg, "literal"),
		Attributes:      readAttributes(msg),
	}

	shape, err := readShape(get(msg, "shape").Message())
	if err != nil {
		return nil, fmt.Errorf("instruction %q: %w", inst.Name, err)
	}

	inst.Shape = shape

	operands := get(msg, "operand_names").List()
	for i := 0; i < operands.Len(); i++ {
		inst.Operands = append(inst.Operands, operands.Get(i).String())
	}

	return inst, nil
}

func readShape(msg protoreflect.Message) (domain.Shape, error) {
	s := domain.Shape{ElementType: domain.PrimitiveType(get(msg, "element_type").Enum())}
	if !s.ElementType.Valid() {
		return domain.Shape{}, fmt.Errorf("invalid element type %d", s.ElementType)
	}

	s.Dimensions = readInt64s(get(msg, "dimensions").List())

	tuple := get(msg, "tuple_shapes").List()
	for i := 0; i < tuple.Len(); i++ {
		elem, err := readShape(tuple.Get(i).Message())
		if err != nil {
			return domain.Shape{}, err
		}

		s.TupleShapes = append(s.TupleShapes, elem)
	}

	if has(msg, "layout") {
		layout := get(msg, "layout").Message()
		s.Layout = &domain.Layout{
			MinorToMajor: readInt64s(get(layout, "minor_to_major").List()),
			Tiling:       getString(layout, "tiling"),
		}
	}

	return s, nil
}

func readAttributes(msg protoreflect.Message) []domain.Attribute {
	list := get(msg, "attributes").List()

	var attrs []domain.Attribute
	for i := 0; i < list.Len(); i++ {
		amsg := list.Get(i).Message()
		attrs = append(attrs, domain.Attribute{Key: getString(amsg, "key"), Value: getString(amsg, "value")})
	}

	return attrs
}

func readInt64s(list protoreflect.List) []int64 {
	var values []int64
	for i := 0; i < list.Len(); i++ {
		values = append(values, list.Get(i).Int())
	}

	return values
}
