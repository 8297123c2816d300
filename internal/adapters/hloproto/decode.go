package hloproto

import (
	"fmt"

	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

// ParseText parses an HloProto in protobuf text format.
func ParseText(data []byte) (*Record, error) {
	md, err := messageDescriptor(hloProtoName)
	if err != nil {
		return nil, err
	}

	msg := dynamicpb.NewMessage(md)
	if err := prototext.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to parse HloProto text: %w", err)
	}

	return &Record{msg: msg}, nil
}

// ParseBinary parses an HloProto in protobuf wire format.
func ParseBinary(data []byte) (*Record, error) {
	md, err := messageDescriptor(hloProtoName)
	if err != nil {
		return nil, err
	}

	msg := dynamicpb.NewMessage(md)
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to parse HloProto: %w", err)
	}

	return &Record{msg: msg}, nil
}

// ParseSnapshot parses a binary HloSnapshot into its module and captured arguments.
func ParseSnapshot(data []byte) (*domain.ModuleAndArguments, error) {
	md, err := messageDescriptor(snapshotName)
	if err != nil {
		return nil, err
	}

	msg := dynamicpb.NewMessage(md)
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, fmt.Errorf("failed to parse HloSnapshot: %w", err)
	}

	if !has(msg, "hlo") {
		return nil, fmt.Errorf("HloSnapshot has no hlo")
	}

	hlo := get(msg, "hlo").Message()
	if !has(hlo, "hlo_module") {
		return nil, fmt.Errorf("HloSnapshot has no hlo_module")
	}

	module, err := readModule(get(hlo, "hlo_module").Message())
	if err != nil {
		return nil, err
	}

	result := &domain.ModuleAndArguments{Module: module}

	args := get(msg, "arguments").List()
	for i := 0; i < args.Len(); i++ {
		lit, err := readLiteral(args.Get(i).Message())
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}

		result.Arguments = append(result.Arguments, lit)
	}

	return result, nil
}

// EncodeSnapshot serializes a module and its arguments as a binary HloSnapshot.
// The converter never writes snapshots; this is the fixture writer for
// snapshot_proto_binary inputs, used by the loader and codec tests.
func EncodeSnapshot(m *domain.Module, args []domain.Literal, platform string) ([]byte, error) {
	md, err := messageDescriptor(snapshotName)
	if err != nil {
		return nil, err
	}

	msg := dynamicpb.NewMessage(md)
	writeModule(mutableMessage(mutableMessage(msg, "hlo"), "hlo_module"), m)
	setString(msg, "execution_platform", platform)

	list := mutableList(msg, "arguments")
	for _, lit := range args {
		elem := list.NewElement()
		writeLiteral(elem.Message(), lit)
		list.Append(elem)
	}

	out, err := proto.MarshalOptions{Deterministic: true}.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal HloSnapshot: %w", err)
	}

	return out, nil
}

func writeLiteral(msg protoreflect.Message, lit domain.Literal) {
	writeShape(mutableMessage(msg, "shape"), lit.Shape)

	preds := mutableList(msg, "preds")
	for _, v := range lit.Preds {
		preds.Append(protoreflect.ValueOfBool(v))
	}

	s32s := mutableList(msg, "s32s")
	for _, v := range lit.S32s {
		s32s.Append(protoreflect.ValueOfInt32(v))
	}

	s64s := mutableList(msg, "s64s")
	for _, v := range lit.S64s {
		s64s.Append(protoreflect.ValueOfInt64(v))
	}

	f32s := mutableList(msg, "f32s")
	for _, v := range lit.F32s {
		f32s.Append(protoreflect.ValueOfFloat32(v))
	}

	f64s := mutableList(msg, "f64s")
	for _, v := range lit.F64s {
		f64s.Append(protoreflect.ValueOfFloat64(v))
	}
}

func readLiteral(msg protoreflect.Message) (domain.Literal, error) {
	shape, err := readShape(get(msg, "shape").Message())
	if err != nil {
		return domain.Literal{}, err
	}

	lit := domain.Literal{Shape: shape, S64s: readInt64s(get(msg, "s64s").List())}

	preds := get(msg, "preds").List()
	for i := 0; i < preds.Len(); i++ {
		lit.Preds = append(lit.Preds, preds.Get(i).Bool())
	}

	s32s := get(msg, "s32s").List()
	for i := 0; i < s32s.Len(); i++ {
		lit.S32s = append(lit.S32s, int32(s32s.Get(i).Int()))
	}

	f32s := get(msg, "f32s").List()
	for i := 0; i < f32s.Len(); i++ {
		lit.F32s = append(lit.F32s, float32(f32s.Get(i).Float()))
	}

	f64s := get(msg, "f64s").List()
	for i := 0; i < f64s.Len(); i++ {
		lit.F64s = append(lit.F64s, f64s.Get(i).Float())
	}

	return lit, nil
}
