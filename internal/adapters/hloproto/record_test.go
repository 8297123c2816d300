package hloproto_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/hloproto"
	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/hlotext"
	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

const tupleModule = `HloModule tuple_module, is_scheduled=true

add_scalar {
  lhs = f32[] parameter(0)
  rhs = f32[] parameter(1)
  ROOT sum = f32[] add(lhs, rhs)
}

ENTRY main {
  p0 = f32[2,3]{1,0:T(2,128)} parameter(0)
  init = f32[] constant(0)
  row = f32[2]{0} reduce(p0, init), dimensions={1}, to_apply=add_scalar
  tok = token[] after-all()
  ROOT out = (f32[2]{0}, token[], ()) tuple(row, tok)
}
`

func parseFixture(t *testing.T) *domain.Module {
	t.Helper()

	m, err := hlotext.Parse([]byte(tupleModule))
	require.NoError(t, err)
	require.NoError(t, m.Verify())

	return m
}

func assertSameModule(t *testing.T, want, got *domain.Module) {
	t.Helper()

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("module mismatch (-want +got):\n%s", diff)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	m := parseFixture(t)

	record, err := hloproto.FromModule(m)
	require.NoError(t, err)

	data, err := record.ToBinary()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	parsed, err := hloproto.ParseBinary(data)
	require.NoError(t, err)

	got, err := parsed.Module()
	require.NoError(t, err)
	assertSameModule(t, m, got)
}

func TestTextRoundTrip(t *testing.T) {
	m := parseFixture(t)

	record, err := hloproto.FromModule(m)
	require.NoError(t, err)

	data, err := record.ToText()
	require.NoError(t, err)
	assert.Contains(t, string(data), "hlo_module")
	assert.Contains(t, string(data), `"tuple_module"`)
	assert.Contains(t, string(data), "F32")
	assert.Contains(t, string(data), `"T(2,128)"`)

	parsed, err := hloproto.ParseText(data)
	require.NoError(t, err)

	got, err := parsed.Module()
	require.NoError(t, err)
	assertSameModule(t, m, got)
}

func TestBinaryIsDeterministic(t *testing.T) {
	m := parseFixture(t)

	first, err := hloproto.FromModule(m)
	require.NoError(t, err)
	a, err := first.ToBinary()
	require.NoError(t, err)

	second, err := hloproto.FromModule(m)
	require.NoError(t, err)
	b, err := second.ToBinary()
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := parseFixture(t)
	args := []domain.Literal{
		{
			Shape: domain.Shape{ElementType: domain.F32, Dimensions: []int64{2, 3}, Layout: &domain.Layout{MinorToMajor: []int64{1, 0}}},
			F32s:  []float32{1, 2, 3, 4, 5, 6.5},
		},
		{Shape: domain.Shape{ElementType: domain.Pred}, Preds: []bool{true}},
		{Shape: domain.Shape{ElementType: domain.S64, Dimensions: []int64{2}}, S64s: []int64{-1, 1 << 40}},
		{Shape: domain.Shape{ElementType: domain.S32}, S32s: []int32{-7}},
		{Shape: domain.Shape{ElementType: domain.F64}, F64s: []float64{0.25}},
	}

	data, err := hloproto.EncodeSnapshot(m, args, "cpu")
	require.NoError(t, err)

	got, err := hloproto.ParseSnapshot(data)
	require.NoError(t, err)
	assertSameModule(t, m, got.Module)

	if diff := cmp.Diff(args, got.Arguments, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("arguments mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshotIsNotAnHloProto(t *testing.T) {
	_, err := hloproto.ParseSnapshot(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HloSnapshot has no hlo")
}

func TestMissingModule(t *testing.T) {
	record, err := hloproto.ParseBinary(nil)
	require.NoError(t, err)

	_, err = record.Module()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no hlo_module")
}

func TestParseBinaryRejectsGarbage(t *testing.T) {
	_, err := hloproto.ParseBinary([]byte{0xff, 0xff, 0xff})
	require.Error(t, err)
}

func TestParseTextRejectsUnknownField(t *testing.T) {
	_, err := hloproto.ParseText([]byte(`hlo_module { nam: "x" }`))
	require.Error(t, err)
}

func TestInvalidElementTypeInRecord(t *testing.T) {
	record, err := hloproto.ParseText([]byte(`hlo_module {
  name: "m"
  computations {
    name: "e"
    instructions { name: "a" opcode: "parameter" shape { element_type: 14 } }
  }
}`))
	require.NoError(t, err)

	_, err = record.Module()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid element type 14")
}

func TestInvalidUTF8FailsToSerialize(t *testing.T) {
	m := parseFixture(t)
	m.Name = "bad\xffname"

	record, err := hloproto.FromModule(m)
	require.NoError(t, err)

	_, err = record.ToText()
	assert.Error(t, err)

	_, err = record.ToBinary()
	assert.Error(t, err)
}
