package module_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclang/kcl-go/module"
	"github.com/kclang/kcl-go/vfs"
)

func newTestResolver(t *testing.T) (*module.Resolver, *vfs.Mem) {
	t.Helper()

	fs := vfs.NewMem()
	resolver := module.NewResolver(fs)

	return resolver, fs
}

func TestResolve_Relative(t *testing.T) {
	t.Parallel()

	resolver, fs := newTestResolver(t)
	require.NoError(t, fs.WriteFile("/project/lib/fixtures.kcl", []byte("export x = 1")))

	uri, err := resolver.Resolve("./lib/fixtures.kcl", "/project/main.kcl")
	require.NoError(t, err)
	assert.Equal(t, "/project/lib/fixtures.kcl", uri)
}

func TestResolve_AppendsExtension(t *testing.T) {
	t.Parallel()

	resolver, fs := newTestResolver(t)
	require.NoError(t, fs.WriteFile("/project/lib/fixtures.kcl", []byte("export x = 1")))

	uri, err := resolver.Resolve("./lib/fixtures", "/project/main.kcl")
	require.NoError(t, err)
	assert.Equal(t, "/project/lib/fixtures.kcl", uri)
}

func TestResolve_ParentDirectory(t *testing.T) {
	t.Parallel()

	resolver, fs := newTestResolver(t)
	require.NoError(t, fs.WriteFile("/project/shared.kcl", []byte("export x = 1")))

	uri, err := resolver.Resolve("../shared.kcl", "/project/sub/main.kcl")
	require.NoError(t, err)
	assert.Equal(t, "/project/shared.kcl", uri)
}

func TestResolve_Std(t *testing.T) {
	t.Parallel()

	resolver, fs := newTestResolver(t)
	resolver.WorkspaceRoot = "/project"

	require.NoError(t, fs.WriteFile("/project/std/math.kcl", []byte("export fn half(@x) { return x / 2 }")))

	uri, err := resolver.Resolve("@std/math", "/project/sub/main.kcl")
	require.NoError(t, err)
	assert.Equal(t, "/project/std/math.kcl", uri)
}

func TestResolve_PackageImportsUnsupported(t *testing.T) {
	t.Parallel()

	resolver, _ := newTestResolver(t)

	_, err := resolver.Resolve("some-package", "/project/main.kcl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Package imports not yet supported")

	// Errors accumulate instead of being thrown away.
	require.Len(t, resolver.Errors(), 1)
}

func TestResolve_MissingFileAccumulates(t *testing.T) {
	t.Parallel()

	resolver, _ := newTestResolver(t)

	_, err := resolver.Resolve("./nope.kcl", "/project/main.kcl")
	require.Error(t, err)
	assert.Len(t, resolver.Errors(), 1)

	_, err = resolver.Resolve("./also-nope.kcl", "/project/main.kcl")
	require.Error(t, err)
	assert.Len(t, resolver.Errors(), 2)
}

func TestExports(t *testing.T) {
	t.Parallel()

	resolver, fs := newTestResolver(t)

	source := `export fn half(@x) { return x / 2 }
export width = 10
internal = 5
fn hidden() { return 1 }`
	require.NoError(t, fs.WriteFile("/project/lib.kcl", []byte(source)))

	exports, err := resolver.Exports("/project/lib.kcl")
	require.NoError(t, err)

	require.Len(t, exports, 2)
	assert.Equal(t, "function", exports["half"].Kind)
	assert.Equal(t, "variable", exports["width"].Kind)
}

func TestExports_Memoised(t *testing.T) {
	t.Parallel()

	resolver, fs := newTestResolver(t)
	require.NoError(t, fs.WriteFile("/project/lib.kcl", []byte("export x = 1")))

	first, err := resolver.Exports("/project/lib.kcl")
	require.NoError(t, err)

	// Changing the file does not invalidate the memoised entry.
	require.NoError(t, fs.WriteFile("/project/lib.kcl", []byte("export y = 2")))

	second, err := resolver.Exports("/project/lib.kcl")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// ClearCache picks up the new content.
	resolver.ClearCache()

	third, err := resolver.Exports("/project/lib.kcl")
	require.NoError(t, err)

	_, ok := third["y"]
	assert.True(t, ok)
}

func TestExports_ParseErrorAccumulates(t *testing.T) {
	t.Parallel()

	resolver, fs := newTestResolver(t)
	require.NoError(t, fs.WriteFile("/project/broken.kcl", []byte("x = ")))

	_, err := resolver.Exports("/project/broken.kcl")
	require.Error(t, err)
	assert.Len(t, resolver.Errors(), 1)
}
