package sink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/dto"
)

func result(source string) dto.Result {
	return dto.Result{
		ModelType: "com.acme.client.PersonForm",
		DtoType:   "com.acme.shared.PersonFormData",
		Package:   "com.acme.shared",
		Source:    source,
	}
}

func TestDir_WritesByPackage(t *testing.T) {
	fs := afero.NewMemMapFs()
	d, err := NewDir("out", WithFs(fs))
	require.NoError(t, err)

	require.NoError(t, d.Write(context.Background(), result("class A {}")))

	path := filepath.Join("out", "com", "acme", "shared", "PersonFormData.java")
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Equal(t, "class A {}", string(data))
	assert.Equal(t, Stats{Written: 1}, d.Stats())

	entries, err := afero.ReadDir(fs, filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not remain")
}

func TestDir_SkipsUnchangedAndReplacesChanged(t *testing.T) {
	fs := afero.NewMemMapFs()
	d, err := NewDir("out", WithFs(fs))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, d.Write(ctx, result("v1")))
	require.NoError(t, d.Write(ctx, result("v1")))
	require.NoError(t, d.Write(ctx, result("v2")))
	assert.Equal(t, Stats{Written: 2, Unchanged: 1}, d.Stats())

	data, err := afero.ReadFile(fs, filepath.Join("out", "com", "acme", "shared", "PersonFormData.java"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
}

func TestDir_Path(t *testing.T) {
	d, err := NewDir("out", WithFs(afero.NewMemMapFs()))
	require.NoError(t, err)

	path, err := d.Path(dto.Result{DtoType: "Plain"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "Plain.java"), path)

	path, err = d.Path(dto.Result{DtoType: "com.acme.Outer$Inner", Package: "com.acme"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "com", "acme", "Outer.java"), path)

	_, err = d.Path(dto.Result{})
	assert.Error(t, err)
}

func TestDir_Errors(t *testing.T) {
	_, err := NewDir(" ")
	assert.Error(t, err)

	d, err := NewDir("out", WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())))
	require.NoError(t, err)
	assert.Error(t, d.Write(context.Background(), result("x")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Write(ctx, result("x")), context.Canceled)
}
