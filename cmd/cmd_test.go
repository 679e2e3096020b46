package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Retro788/Euclidian-VisionModel/model"
	_ "github.com/Retro788/Euclidian-VisionModel/model/models"
	"github.com/Retro788/Euclidian-VisionModel/translate"
)

// run fuehrt das CLI mit args aus und gibt stdout/stderr zurueck
func run(t *testing.T, root func() *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	c := root()
	c.SetArgs(args)
	c.SetOut(&stdout)
	c.SetErr(&stderr)

	err := c.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeArgs(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "args.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, NewCLI, "--version")
	require.NoError(t, err)
	assert.Equal(t, "retro version is "+Version+"\n", out)
}

func TestUsageListsEnvironment(t *testing.T) {
	out, _, err := run(t, NewCLI, "rewrite", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "Environment Variables:")
	assert.Contains(t, out, "RETRO_REWRITE_WORKERS")
	assert.NotContains(t, out, "RETRO_TRANSLATE_URL")
}

func TestArchs(t *testing.T) {
	out, _, err := run(t, NewCLI, "archs")
	require.NoError(t, err)

	assert.Contains(t, out, "FAMILY")
	assert.Contains(t, out, "mini-retro-ov-1.5-3b")
	assert.Contains(t, out, "mini-retro-ov-1.5-8b")
	assert.Contains(t, out, "151936")
}

func TestBuild(t *testing.T) {
	path := writeArgs(t, "model_name: mini-retro-ov-1.5-3b\ntensor_model_parallel_size: 2\n")

	out, _, err := run(t, NewCLI, "build", "--config", path, "--verbose")
	require.NoError(t, err)

	for _, want := range []string{"language_model", "vision_model", "adapter", "qwen-te", "mini-retro-vision", "2x1x1", "1x1x1"} {
		assert.Contains(t, out, want)
	}
	assert.Contains(t, out, "language_model: TransformerLayer(")
}

func TestBuildWithoutEncoder(t *testing.T) {
	path := writeArgs(t, "model_name: mini-retro-ov-1.5-3b\n")

	// ohne encoder_pipeline_model_parallel_size liegt der Encoder auf Stage 0
	out, _, err := run(t, NewCLI, "build", "-f", path, "--add-encoder=true", "--pipeline-rank", "1", "--pipeline-size", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "pipeline stage 2/2")
	assert.Contains(t, out, "language_model")
	assert.NotContains(t, out, "vision_model")
}

func TestBuildNothingOnStage(t *testing.T) {
	path := writeArgs(t, "model_name: mini-retro-ov-1.5-3b\nencoder_pipeline_model_parallel_size: 1\n")

	out, _, err := run(t, NewCLI, "build", "-f", path, "--add-encoder=false", "--add-decoder=false")
	require.NoError(t, err)
	assert.Contains(t, out, "no sub-models on this pipeline stage")
}

func TestBuildModelOverride(t *testing.T) {
	path := writeArgs(t, "model_name: mini-retro-ov-1.5-3b\n")

	out, _, err := run(t, NewCLI, "build", "-f", path, "--model", "mini-retro-ov-1.5-8b")
	require.NoError(t, err)
	assert.Contains(t, out, "mini-retro-ov-1.5-8b (mini-retro-ov-1.5)")
}

func TestBuildErrors(t *testing.T) {
	t.Run("missing config flag", func(t *testing.T) {
		_, _, err := run(t, NewCLI, "build")
		assert.Error(t, err)
	})

	t.Run("rank out of range", func(t *testing.T) {
		path := writeArgs(t, "model_name: mini-retro-ov-1.5-3b\n")
		_, _, err := run(t, NewCLI, "build", "-f", path, "--pipeline-rank", "2", "--pipeline-size", "2")
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("unsupported model", func(t *testing.T) {
		path := writeArgs(t, "model_name: mini-retro-ov-1.5-3c\n")
		_, _, err := run(t, NewCLI, "build", "-f", path)
		assert.ErrorIs(t, err, model.ErrUnsupportedModel)
		assert.ErrorContains(t, err, "did you mean")
	})

	t.Run("legacy", func(t *testing.T) {
		path := writeArgs(t, "model_name: mini-retro-ov-1.5-3b\nuse_legacy_models: true\n")
		_, _, err := run(t, NewCLI, "build", "-f", path)
		assert.ErrorIs(t, err, model.ErrLegacyModel)
	})
}

func TestRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "train.py")
	require.NoError(t, os.WriteFile(path, []byte("MINI_RETRO_HOME = 1\n"), 0o644))

	t.Run("dry run", func(t *testing.T) {
		out, _, err := run(t, NewCLI, "rewrite", dir, "--to", "tiny-vision", "--dry-run")
		require.NoError(t, err)
		assert.Equal(t, path+"\n", out)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "MINI_RETRO_HOME = 1\n", string(data))
	})

	t.Run("write", func(t *testing.T) {
		out, _, err := run(t, NewReplaceTokensCLI, dir, "--to", "tiny-vision", "--workers", "2")
		require.NoError(t, err)
		assert.Equal(t, path+"\n", out)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "TINY_VISION_HOME = 1\n", string(data))
	})
}

func TestRewriteRootFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.sh"), []byte("echo ok\n"), 0o644))
	t.Setenv("RETRO_REWRITE_ROOT", dir)

	out, _, err := run(t, NewCLI, "rewrite")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRewriteInvalidCodename(t *testing.T) {
	_, _, err := run(t, NewCLI, "rewrite", t.TempDir(), "--to=__")
	assert.ErrorContains(t, err, "--to")
}

func TestTranslateNoService(t *testing.T) {
	t.Setenv("RETRO_TRANSLATE_URL", "")

	_, _, err := run(t, NewCLI, "translate", "README.md")
	assert.ErrorIs(t, err, translate.ErrNoService)
}

func TestTranslate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/translate", func(c *gin.Context) {
		var req struct {
			Q      string `json:"q"`
			Target string `json:"target"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Target != "de" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unexpected target " + req.Target})
			return
		}
		c.JSON(http.StatusOK, gin.H{"translatedText": strings.ToUpper(req.Q)})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	t.Setenv("RETRO_TRANSLATE_URL", "")
	t.Setenv("RETRO_TRANSLATE_TARGET", "de")
	t.Setenv("RETRO_TRANSLATE_RPS", "0")

	dir := t.TempDir()
	doc := filepath.Join(dir, "README.md")
	require.NoError(t, os.WriteFile(doc, []byte("Hello world\n"), 0o600))
	missing := filepath.Join(dir, "missing.md")

	out, errOut, err := run(t, NewTranslateDocsCLI, doc, missing, "--url", srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "translating "+doc+"\n", out)
	assert.Equal(t, "skipping "+missing+": does not exist\n", errOut)

	data, err := os.ReadFile(doc)
	require.NoError(t, err)
	assert.Equal(t, "HELLO WORLD\n", string(data))

	info, err := os.Stat(doc)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTranslateInvalidURL(t *testing.T) {
	_, _, err := run(t, NewCLI, "translate", "README.md", "--url", "http://")
	assert.ErrorContains(t, err, "--url")
}

func TestEnv(t *testing.T) {
	t.Setenv("RETRO_TRANSLATE_TARGET", "fr")
	t.Setenv("RETRO_TRANSLATE_API_KEY", "secret")

	out, _, err := run(t, NewCLI, "env")
	require.NoError(t, err)

	var target string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "RETRO_TRANSLATE_TARGET") {
			target = line
		}
	}
	assert.Contains(t, target, "fr")
	assert.NotContains(t, out, "secret")
}
