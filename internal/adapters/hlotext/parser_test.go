package hlotext_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/hlotext"
	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

const reduceModule = `HloModule add_module, entry_computation_layout={(f32[2]{0}, f32[2]{0})->f32[2]{0}}

add_scalar {
  lhs = f32[] parameter(0)
  rhs = f32[] parameter(1)
  ROOT sum = f32[] add(lhs, rhs)
}

ENTRY main {
  p0 = f32[2]{0} parameter(0)
  p1 = f32[2]{0} parameter(1)
  sum = f32[2]{0} add(p0, p1)
  zero = f32[] constant(0)
  reduced = f32[] reduce(sum, zero), dimensions={0}, to_apply=add_scalar
  ROOT out = (f32[2]{0}, f32[]) tuple(sum, reduced)
}
`

func TestParseStructure(t *testing.T) {
	m, err := hlotext.Parse([]byte(reduceModule))
	require.NoError(t, err)

	assert.Equal(t, "add_module", m.Name)
	assert.Equal(t, "main", m.EntryComputation)
	require.Len(t, m.Attributes, 1)
	assert.Equal(t, "entry_computation_layout", m.Attributes[0].Key)
	assert.Equal(t, "{(f32[2]{0}, f32[2]{0})->f32[2]{0}}", m.Attributes[0].Value)

	require.Len(t, m.Computations, 2)
	entry := m.Entry()
	require.NotNil(t, entry)
	assert.Equal(t, "out", entry.Root)
	require.Len(t, entry.Instructions, 6)

	p1 := entry.Instruction("p1")
	require.NotNil(t, p1)
	assert.Equal(t, domain.OpcodeParameter, p1.Opcode)
	assert.Equal(t, int64(1), p1.ParameterNumber)
	assert.Equal(t, []int64{2}, p1.Shape.Dimensions)
	require.NotNil(t, p1.Shape.Layout)
	assert.Equal(t, []int64{0}, p1.Shape.Layout.MinorToMajor)

	zero := entry.Instruction("zero")
	require.NotNil(t, zero)
	assert.Equal(t, "0", zero.Literal)
	assert.Empty(t, zero.Operands)

	reduced := entry.Instruction("reduced")
	require.NotNil(t, reduced)
	assert.Equal(t, []string{"sum", "zero"}, reduced.Operands)
	assert.Equal(t, []domain.Attribute{
		{Key: "dimensions", Value: "{0}"},
		{Key: "to_apply", Value: "add_scalar"},
	}, reduced.Attributes)

	out := entry.Instruction("out")
	require.NotNil(t, out)
	assert.True(t, out.Shape.IsTuple())
	assert.Len(t, out.Shape.TupleShapes, 2)

	require.NoError(t, m.Verify())
}

func TestParsePrintIsCanonical(t *testing.T) {
	m, err := hlotext.Parse([]byte(reduceModule))
	require.NoError(t, err)

	assert.Equal(t, reduceModule, m.String())
}

func TestTextRoundTrip(t *testing.T) {
	m, err := hlotext.Parse([]byte(reduceModule))
	require.NoError(t, err)

	again, err := hlotext.Parse([]byte(m.String()))
	require.NoError(t, err)

	if diff := cmp.Diff(m, again, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLongFormAndDefaults(t *testing.T) {
	const src = `// exported by a tool
HloModule %long_form

%helper (x: f32[]) -> f32[] {
  %x = f32[] parameter(0)
  %neg = f32[] negate(f32[] %x)
}

%main {
  %a = f32[] parameter(0)
  %t = f32[8,128]{1,0:T(8,128)} parameter(1)
  %c = f32[] call(f32[] %a), to_apply=%helper
  %tup = (f32[], f32[], f32[], f32[], f32[], /*index=5*/f32[8,128]{1,0:T(8,128)}) tuple(f32[] %a, f32[] %a, f32[] %c, f32[] %c, f32[] %a, /*index=5*/f32[8,128]{1,0:T(8,128)} %t)
}
`

	m, err := hlotext.Parse([]byte(src))
	require.NoError(t, err)

	assert.Equal(t, "%long_form", m.Name)
	assert.Equal(t, "main", m.EntryComputation, "last computation is the entry")

	helper := m.Computation("helper")
	require.NotNil(t, helper)
	assert.Equal(t, "neg", helper.Root, "last instruction is the root")
	assert.Equal(t, []string{"x"}, helper.Instruction("neg").Operands)

	entry := m.Entry()
	assert.Equal(t, "tup", entry.Root)

	tup := entry.Instruction("tup")
	assert.Equal(t, []string{"a", "a", "c", "c", "a", "t"}, tup.Operands, "index comments are not part of operand names")
	require.Len(t, tup.Shape.TupleShapes, 6)

	tiled := &domain.Layout{MinorToMajor: []int64{1, 0}, Tiling: "T(8,128)"}
	assert.Equal(t, tiled, entry.Instruction("t").Shape.Layout)
	assert.Equal(t, tiled, tup.Shape.TupleShapes[5].Layout)
	assert.Equal(t, "f32[8,128]{1,0:T(8,128)}", entry.Instruction("t").Shape.String())

	require.NoError(t, m.Verify())

	again, err := hlotext.Parse([]byte(m.String()))
	require.NoError(t, err)

	if diff := cmp.Diff(m, again, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseScalarLayoutAndToken(t *testing.T) {
	const src = `HloModule m

ENTRY e {
  t = token[] after-all()
  ROOT c = s32[]{} constant(-3)
}
`

	m, err := hlotext.Parse([]byte(src))
	require.NoError(t, err)

	entry := m.Entry()
	assert.Equal(t, domain.Token, entry.Instruction("t").Shape.ElementType)
	assert.Empty(t, entry.Instruction("t").Operands)
	assert.NotNil(t, entry.Instruction("c").Shape.Layout)
	assert.Equal(t, src, m.String())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "", "missing \"HloModule\" header"},
		{"no header", "ENTRY e {\n}\n", "expected \"HloModule\" header"},
		{"unclosed computation", "HloModule m\nENTRY e {\n  ROOT a = f32[] parameter(0)\n", `computation "e" is not closed`},
		{"bad element type", "HloModule m\nENTRY e {\n  ROOT a = f33[] parameter(0)\n}\n", `unknown element type "f33"`},
		{"bad dimension", "HloModule m\nENTRY e {\n  ROOT a = f32[x] parameter(0)\n}\n", `invalid integer "x"`},
		{"layout rank", "HloModule m\nENTRY e {\n  ROOT a = f32[2]{1,0} parameter(0)\n}\n", "does not match rank 1"},
		{"bad parameter", "HloModule m\nENTRY e {\n  ROOT a = f32[] parameter(x)\n}\n", `invalid parameter number "x"`},
		{"unterminated args", "HloModule m\nENTRY e {\n  ROOT a = f32[] add(b, c\n}\n", "unterminated argument list"},
		{"bad attribute", "HloModule m\nENTRY e {\n  ROOT a = f32[] parameter(0), oops\n}\n", `invalid attribute "oops"`},
		{"two roots", "HloModule m\nENTRY e {\n  ROOT a = f32[] parameter(0)\n  ROOT b = f32[] negate(a)\n}\n", "multiple ROOT"},
		{"two entries", "HloModule m\nENTRY a {\n  ROOT x = f32[] parameter(0)\n}\nENTRY b {\n  ROOT y = f32[] parameter(0)\n}\n", "multiple ENTRY"},
		{"missing equals", "HloModule m\nENTRY e {\n  ROOT a f32[] parameter(0)\n}\n", "expected \"<name> = <shape> <opcode>(...)\""},
		{"unterminated comment", "HloModule m\nENTRY e {\n  ROOT a = f32[] negate(/*index=0 b)\n}\n", "unterminated comment"},
		{"unbalanced attribute", "HloModule m\nENTRY e {\n  ROOT a = f32[] parameter(0), dims={0\n}\n", "unbalanced brackets"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hlotext.Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
