package loader_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/hloproto"
	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/hlotext"
	"github.com/GabrielNunesIT/hlo-converter/internal/adapters/loader"
	"github.com/GabrielNunesIT/hlo-converter/internal/domain"
)

const addModule = `HloModule add

ENTRY main {
  p0 = f32[4]{0} parameter(0)
  p1 = f32[4]{0} parameter(1)
  ROOT sum = f32[4]{0} add(p0, p1)
}
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	return path
}

func fixture(t *testing.T) *domain.Module {
	t.Helper()

	m, err := hlotext.Parse([]byte(addModule))
	require.NoError(t, err)

	return m
}

func TestLoadEachFormat(t *testing.T) {
	m := fixture(t)

	record, err := hloproto.FromModule(m)
	require.NoError(t, err)

	protoText, err := record.ToText()
	require.NoError(t, err)

	protoBinary, err := record.ToBinary()
	require.NoError(t, err)

	args := []domain.Literal{{Shape: domain.Shape{ElementType: domain.F32, Dimensions: []int64{4}}, F32s: []float32{1, 2, 3, 4}}}
	snapshot, err := hloproto.EncodeSnapshot(m, args, "cpu")
	require.NoError(t, err)

	tests := []struct {
		format   domain.InputFormat
		data     []byte
		wantArgs int
	}{
		{domain.InputText, []byte(addModule), 0},
		{domain.InputProtoText, protoText, 0},
		{domain.InputProtoBinary, protoBinary, 0},
		{domain.InputSnapshotProtoBinary, snapshot, 1},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			path := writeFile(t, "module."+tt.format.String(), tt.data)

			got, err := loader.New().Load(path, tt.format)
			require.NoError(t, err)
			require.NotNil(t, got.Module)
			assert.Len(t, got.Arguments, tt.wantArgs)

			if diff := cmp.Diff(m, got.Module, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("module mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := loader.New().Load(filepath.Join(t.TempDir(), "missing.hlo"), domain.InputText)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrLoad))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, domain.CodeNotFound, domain.ExitCode(err))
}

func TestLoadFailures(t *testing.T) {
	tests := []struct {
		name   string
		format domain.InputFormat
		data   string
		want   string
	}{
		{"malformed text", domain.InputText, "not hlo", `expected "HloModule" header`},
		{"text read as proto", domain.InputProtoText, addModule, "failed to parse HloProto text"},
		{"empty binary proto", domain.InputProtoBinary, "", "no hlo_module"},
		{"garbage snapshot", domain.InputSnapshotProtoBinary, "\xff\xff\xff", "failed to parse HloSnapshot"},
		{"unknown operand", domain.InputText, "HloModule m\n\nENTRY e {\n  ROOT a = f32[] negate(b)\n}\n", `unknown operand "b"`},
		{"unsupported format", domain.InputFormat("hdf5"), addModule, `unsupported input format "hdf5"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "input", []byte(tt.data))

			got, err := loader.New().Load(path, tt.format)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, domain.ErrLoad))
			assert.Contains(t, err.Error(), tt.want)
			assert.Equal(t, domain.CodeInvalidArgument, domain.ExitCode(err))
		})
	}
}

func TestLoadRejectsRecordsWithoutTextForm(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *domain.Module)
		want   string
	}{
		{"space in module name", func(m *domain.Module) { m.Name = "my module" }, `module name "my module" contains whitespace`},
		{"empty computation name", func(m *domain.Module) {
			m.Computations[0].Name = ""
			m.EntryComputation = ""
		}, "computation has no name"},
		{"operands on parameter", func(m *domain.Module) {
			m.Computations[0].Instructions[1].Operands = []string{"p0"}
		}, "parameter cannot have operands"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := fixture(t)
			tt.mutate(m)

			record, err := hloproto.FromModule(m)
			require.NoError(t, err)

			data, err := record.ToText()
			require.NoError(t, err)

			path := writeFile(t, "module.proto_text", data)

			got, err := loader.New().Load(path, domain.InputProtoText)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, domain.ErrLoad))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
