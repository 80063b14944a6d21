package main

import (
	"testing"

	"battlemap/internal/battlefield"
	"battlemap/internal/config"
	"battlemap/internal/unit"
	"battlemap/pkg/colorutil"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameOptions(t *testing.T) {
	t.Cleanup(viper.Reset)

	cfg, err := config.Load(t.TempDir())
	require.NoError(t, err)
	cfg.Map.Width = 44
	cfg.Map.Height = 30
	cfg.Unit.Shape = "oval"
	cfg.StrictInvariants = true

	opts := frameOptions(cfg)
	assert.Equal(t, battlefield.Dimensions{Width: 44, Height: 30}, opts.Dimensions)
	assert.Equal(t, 25.4, opts.System.Scale())
	assert.Equal(t, unit.Oval, opts.FormDefaults.Shape)
	assert.Equal(t, 20.0, opts.LabelOffset)
	assert.Equal(t, 14.0, opts.LabelFontSize)
	assert.Equal(t, colorutil.Red, opts.MeasureColor)
	assert.Equal(t, 2.0, opts.MeasureStrokeWidth)
	assert.True(t, opts.StrictInvariants)
}
