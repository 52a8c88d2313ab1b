package container

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicsetup/adapters/llm"
	"clinicsetup/internal"
	"clinicsetup/internal/config"
	apperrors "clinicsetup/internal/errors"
)

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		AI:      config.AIConfig{Model: "o3-mini", ExtractionTimeout: time.Second},
		Storage: config.StorageConfig{UploadDir: t.TempDir(), UploadRetention: time.Hour},
		Import:  config.ImportConfig{MaxUploadBytes: 1 << 20},
	}
}

func TestNewRequiresAPIKeyWithoutExtractorOverride(t *testing.T) {
	_, err := New(testConfig(t), WithLogger(internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError, "json")))
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestNewWiresServices(t *testing.T) {
	cfg := testConfig(t)
	cfg.AI.OpenAIKey = "sk-test"

	c, err := New(cfg, WithLogger(internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError, "json")))
	require.NoError(t, err)
	assert.IsType(t, &llm.OpenAIExtractor{}, c.Extractor)
	assert.NotNil(t, c.ImportService)
	assert.NotNil(t, c.SessionService)
	assert.NotNil(t, c.Sessions)
}

func TestWithExtractorSkipsOpenAI(t *testing.T) {
	static := &llm.StaticExtractor{Content: `{"services": []}`}

	c, err := New(testConfig(t), WithExtractor(static), WithLogger(internal.NewLoggerTo(&bytes.Buffer{}, internal.LogLevelError, "json")))
	require.NoError(t, err)
	assert.Same(t, static, c.Extractor)

	removed, err := c.CleanupUploads(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
