package hloproto

import (
	"google.golang.org/protobuf/encoding/prototext"
	"google.golang.org/protobuf/reflect/protoreflect"
)

func prototextMarshalOptions() prototext.MarshalOptions {
	return prototext.MarshalOptions{Multiline: true, Indent: "  "}
}

// field looks up a field by name. Names come from the static schema, so a miss is a bug.
func field(msg protoreflect.Message, name string) protoreflect.FieldDescriptor {
	fd := msg.Descriptor().Fields().ByName(protoreflect.Name(name))
	if fd == nil {
		panic("hloproto: " + string(msg.Descriptor().FullName()) + " has no field " + name)
	}

	return fd
}

func get(msg protoreflect.Message, name string) protoreflect.Value {
	return msg.Get(field(msg, name))
}

func has(msg protoreflect.Message, name string) bool {
	return msg.Has(field(msg, name))
}

func getString(msg protoreflect.Message, name string) string {
	return get(msg, name).String()
}

func setString(msg protoreflect.Message, name, value string) {
	msg.Set(field(msg, name), protoreflect.ValueOfString(value))
}

func mutableList(msg protoreflect.Message, name string) protoreflect.List {
	return msg.Mutable(field(msg, name)).List()
}

func mutableMessage(msg protoreflect.Message, name string) protoreflect.Message {
	return msg.Mutable(field(msg, name)).Message()
}
