package domain

import "sort"

// PrimitiveType is the element type of a shape. Values match XLA's PrimitiveType enum.
type PrimitiveType int32

// Primitive types.
const (
	PrimitiveTypeInvalid PrimitiveType = 0
	Pred                 PrimitiveType = 1
	S8                   PrimitiveType = 2
	S16                  PrimitiveType = 3
	S32                  PrimitiveType = 4
	S64                  PrimitiveType = 5
	U8                   PrimitiveType = 6
	U16                  PrimitiveType = 7
	U32                  PrimitiveType = 8
	U64                  PrimitiveType = 9
	F16                  PrimitiveType = 10
	F32                  PrimitiveType = 11
	F64                  PrimitiveType = 12
	Tuple                PrimitiveType = 13
	C64                  PrimitiveType = 15
	BF16                 PrimitiveType = 16
	Token                PrimitiveType = 17
	C128                 PrimitiveType = 18
)

var primitiveTypeNames = map[PrimitiveType]string{
	Pred:  "pred",
	S8:    "s8",
	S16:   "s16",
	S32:   "s32",
	S64:   "s64",
	U8:    "u8",
	U16:   "u16",
	U32:   "u32",
	U64:   "u64",
	F16:   "f16",
	F32:   "f32",
	F64:   "f64",
	Tuple: "tuple",
	C64:   "c64",
	BF16:  "bf16",
	Token: "token",
	C128:  "c128",
}

// String returns the lowercase name used in HLO text.
func (t PrimitiveType) String() string {
	if name, ok := primitiveTypeNames[t]; ok {
		return name
	}

	return "invalid"
}

// Valid reports whether t is a known primitive type.
func (t PrimitiveType) Valid() bool {
	_, ok := primitiveTypeNames[t]
	return ok
}

// ParsePrimitiveType parses a lowercase type name such as "f32".
func ParsePrimitiveType(s string) (PrimitiveType, bool) {
	for t, name := range primitiveTypeNames {
		if name == s {
			return t, true
		}
	}

	return PrimitiveTypeInvalid, false
}

// PrimitiveTypes returns all known primitive types ordered by value.
func PrimitiveTypes() []PrimitiveType {
	types := make([]PrimitiveType, 0, len(primitiveTypeNames))
	for t := range primitiveTypeNames {
		types = append(types, t)
	}

	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	return types
}
