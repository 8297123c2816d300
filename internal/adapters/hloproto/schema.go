// Package hloproto converts HLO modules to and from their HloProto structured records.
//
// The schema is assembled at runtime from a descriptor, so records are dynamic
// messages that go through the standard protobuf text and binary codecs.
package hloproto

import (
	"fmt"
	"strings"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

const schemaPackage = "xla"

// Message names.
const (
	hloProtoName         = "HloProto"
	moduleProtoName      = "HloModuleProto"
	computationProtoName = "HloComputationProto"
	instructionProtoName = "HloInstructionProto"
	shapeProtoName       = "ShapeProto"
	layoutProtoName      = "LayoutProto"
	attributeProtoName   = "AttributeProto"
	literalProtoName     = "LiteralProto"
	snapshotName         = "HloSnapshot"
	primitiveTypeName    = "PrimitiveType"
)

var (
	schemaOnce sync.Once
	schemaFile protoreflect.FileDescriptor
	schemaErr  error
)

// schema returns the xla file descriptor, building it on first use.
func schema() (protoreflect.FileDescriptor, error) {
	schemaOnce.Do(func() {
		schemaFile, schemaErr = protodesc.NewFile(schemaDescriptor(), new(protoregistry.Files))
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to build HLO proto schema: %w", schemaErr)
		}
	})

	return schemaFile, schemaErr
}

func messageDescriptor(name string) (protoreflect.MessageDescriptor, error) {
	fd, err := schema()
	if err != nil {
		return nil, err
	}

	md := fd.Messages().ByName(protoreflect.Name(name))
	if md == nil {
		return nil, fmt.Errorf("message %s.%s not in schema", schemaPackage, name)
	}

	return md, nil
}

func schemaDescriptor() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:     proto.String("xla/hlo.proto"),
		Package:  proto.String(schemaPackage),
		Syntax:   proto.String("proto3"),
		EnumType: []*descriptorpb.EnumDescriptorProto{primitiveTypeEnum()},
		MessageType: []*descriptorpb.DescriptorProto{
			message(hloProtoName,
				messageField("hlo_module", 1, moduleProtoName),
			),
			message(moduleProtoName,
				scalarField("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("entry_computation_name", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				repeated(messageField("computations", 3, computationProtoName)),
				repeated(messageField("attributes", 4, attributeProtoName)),
			),
			message(computationProtoName,
				scalarField("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				repeated(messageField("instructions", 2, instructionProtoName)),
				scalarField("root_name", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message(instructionProtoName,
				scalarField("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("opcode", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				messageField("shape", 3, shapeProtoName),
				repeated(scalarField("operand_names", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
				scalarField("parameter_number", 5, descriptorpb.FieldDescriptorProto_TYPE_INT64),
				scalarField("literal", 6, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				repeated(messageField("attributes", 7, attributeProtoName)),
			),
			message(shapeProtoName,
				enumField("element_type", 2, primitiveTypeName),
				repeated(scalarField("dimensions", 3, descriptorpb.FieldDescriptorProto_TYPE_INT64)),
				repeated(messageField("tuple_shapes", 4, shapeProtoName)),
				messageField("layout", 5, layoutProtoName),
			),
			message(layoutProtoName,
				repeated(scalarField("minor_to_major", 1, descriptorpb.FieldDescriptorProto_TYPE_INT64)),
				scalarField("tiling", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message(attributeProtoName,
				scalarField("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("value", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message(literalProtoName,
				messageField("shape", 1, shapeProtoName),
				repeated(scalarField("preds", 2, descriptorpb.FieldDescriptorProto_TYPE_BOOL)),
				repeated(scalarField("s32s", 4, descriptorpb.FieldDescriptorProto_TYPE_INT32)),
				repeated(scalarField("s64s", 5, descriptorpb.FieldDescriptorProto_TYPE_INT64)),
				repeated(scalarField("f32s", 8, descriptorpb.FieldDescriptorProto_TYPE_FLOAT)),
				repeated(scalarField("f64s", 9, descriptorpb.FieldDescriptorProto_TYPE_DOUBLE)),
			),
			message(snapshotName,
				messageField("hlo", 1, hloProtoName),
				repeated(messageField("arguments", 2, literalProtoName)),
				messageField("result", 3, literalProtoName),
				scalarField("execution_platform", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
		},
	}
}

func primitiveTypeEnum() *descriptorpb.EnumDescriptorProto {
	values := []*descriptorpb.EnumValueDescriptorProto{{
		Name:   proto.String("PRIMITIVE_TYPE_INVALID"),
		Number: proto.Int32(int32(domain.PrimitiveTypeInvalid)),
	}}

	for _, t := range domain.PrimitiveTypes() {
		values = append(values, &descriptorpb.EnumValueDescriptorProto{
			Name:   proto.String(strings.ToUpper(t.String())),
			Number: proto.Int32(int32(t)),
		})
	}

	return &descriptorpb.EnumDescriptorProto{
		Name:  proto.String(primitiveTypeName),
		Value: values,
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(name),
		Field: fields,
	}
}

func scalarField(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalarField(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String("." + schemaPackage + "." + typeName)

	return f
}

func enumField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalarField(name, number, descriptorpb.FieldDescriptorProto_TYPE_ENUM)
	f.TypeName = proto.String("." + schemaPackage + "." + typeName)

	return f
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}
