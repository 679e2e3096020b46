package rewrite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func readFile(t *testing.T, root, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func TestWalkerRewritesMatchingFiles(t *testing.T) {
	root := writeTree(t, map[string]string{
		"train.py":            "import mini-retro_utils\n",
		"conf/model.YAML":     "name: amini-retro\n",
		"scripts/run.sh":      "echo mini-retro\n",
		"README.md":           "import mini-retro_utils\n",
		".git/hooks/x.py":     "import mini-retro_utils\n",
		"vendor/skip/also.py": "import mini-retro_utils\n",
	})

	w := NewWalker(DefaultRules(), WithWorkers(2), WithExclude("vendor"))
	result, err := w.Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Visited)
	want := []string{
		filepath.Join(root, "conf", "model.YAML"),
		filepath.Join(root, "train.py"),
	}
	if diff := cmp.Diff(want, result.Changed); diff != "" {
		t.Errorf("Changed (-want +got):\n%s", diff)
	}

	assert.Equal(t, "import mini_retro_utils\n", readFile(t, root, "train.py"))
	assert.Equal(t, "name: amini_retro\n", readFile(t, root, "conf/model.YAML"))
	assert.Equal(t, "echo mini-retro\n", readFile(t, root, "scripts/run.sh"))
	assert.Equal(t, "import mini-retro_utils\n", readFile(t, root, "README.md"))
	assert.Equal(t, "import mini-retro_utils\n", readFile(t, root, ".git/hooks/x.py"))
	assert.Equal(t, "import mini-retro_utils\n", readFile(t, root, "vendor/skip/also.py"))
}

func TestWalkerIdempotent(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.py":   "Amini-retroB mini-retro2 -mini-retro-x mini-retro_\n",
		"b.json": `{"model": "mini-retro-ov-1.5", "cls": "MiniRetroModel"}`,
	})

	w := NewWalker(NewRules(MustParseCodename("mini-retro"), MustParseCodename("nano-core")))

	first, err := w.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, first.Changed, 2)

	second, err := w.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Empty(t, second.Changed)
	assert.Equal(t, `{"model": "nano-core-ov-1.5", "cls": "NanoCoreModel"}`, readFile(t, root, "b.json"))
}

func TestWalkerLeavesOtherFilesByteIdentical(t *testing.T) {
	content := "line one\r\nline two\twith tabs\r\n\x00 trailing"
	root := writeTree(t, map[string]string{"plain.cfg": content})

	info, err := os.Stat(filepath.Join(root, "plain.cfg"))
	require.NoError(t, err)

	result, err := NewWalker(DefaultRules()).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Empty(t, result.Changed)
	assert.Equal(t, content, readFile(t, root, "plain.cfg"))

	after, err := os.Stat(filepath.Join(root, "plain.cfg"))
	require.NoError(t, err)
	assert.Equal(t, info.ModTime(), after.ModTime())
}

func TestWalkerSkipsInvalidUTF8(t *testing.T) {
	root := writeTree(t, map[string]string{
		"bin.py": "mini-retro_x \xff\xfe",
	})

	result, err := NewWalker(DefaultRules()).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Skipped)
	assert.Empty(t, result.Changed)
	assert.Equal(t, "mini-retro_x \xff\xfe", readFile(t, root, "bin.py"))
}

func TestWalkerDryRun(t *testing.T) {
	root := writeTree(t, map[string]string{"a.toml": "x = \"amini-retro\"\n"})

	result, err := NewWalker(DefaultRules(), WithDryRun(true)).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "a.toml")}, result.Changed)
	assert.Equal(t, "x = \"amini-retro\"\n", readFile(t, root, "a.toml"))
}

func TestWalkerPreservesMode(t *testing.T) {
	root := writeTree(t, map[string]string{"run.sh": "echo amini-retro\n"})
	path := filepath.Join(root, "run.sh")
	require.NoError(t, os.Chmod(path, 0o755))

	_, err := NewWalker(DefaultRules()).Run(context.Background(), root)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	assert.Equal(t, "echo amini_retro\n", readFile(t, root, "run.sh"))
}

func TestWalkerExtensions(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.md": "amini-retro\n",
		"b.py": "amini-retro\n",
	})

	result, err := NewWalker(DefaultRules(), WithExtensions(".MD")).Run(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(root, "a.md")}, result.Changed)
	assert.Equal(t, "amini-retro\n", readFile(t, root, "b.py"))
}

func TestWalkerCancelled(t *testing.T) {
	root := writeTree(t, map[string]string{"a.py": "amini-retro\n"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWalker(DefaultRules()).Run(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "amini-retro\n", readFile(t, root, "a.py"))
}

func TestWalkerMissingRoot(t *testing.T) {
	_, err := NewWalker(DefaultRules()).Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
