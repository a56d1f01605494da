package container

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assaystat/internal"
	"assaystat/internal/config"
	"assaystat/internal/errors"
)

func TestNew(t *testing.T) {
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)

	cfg := config.Default()
	c, err := New(cfg, logger)
	require.NoError(t, err)
	assert.NotNil(t, c.Anova)
	assert.NotNil(t, c.Comparison)
	require.NotNil(t, c.Renderer)
	assert.Equal(t, "svg", c.Renderer.Format())
	assert.Nil(t, c.Reports)

	cfg.Plot.Format = "none"
	cfg.Output.Report = true
	c, err = New(cfg, logger)
	require.NoError(t, err)
	assert.Nil(t, c.Renderer)
	assert.NotNil(t, c.Reports)
}

func TestNew_Rejects(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)

	cfg := config.Default()
	cfg.Plot.Width = 0
	_, err = New(cfg, nil)
	assert.True(t, errors.Is(err, errors.CodeConfigInvalid))
}
