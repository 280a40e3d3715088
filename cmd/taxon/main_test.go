package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taxonfmt/taxon"
)

func TestFormatStreamCanonicalizes(t *testing.T) {
	var out bytes.Buffer
	err := formatStream(strings.NewReader(`[1, "hi", false]`), &out, 0)
	require.NoError(t, err)
	assert.Equal(t, `[1,"hi",false]`, out.String())
}

func TestFormatStreamJSONMode(t *testing.T) {
	var out bytes.Buffer
	err := formatStream(strings.NewReader(`["$l:5"]`), &out, taxon.OptJSONMode)
	require.NoError(t, err)
	assert.Equal(t, `["$l:5"]`, out.String(), "JSON mode must treat the annotator text as a plain string")
}

func TestValidateStreamValidInput(t *testing.T) {
	var out bytes.Buffer
	valid, err := validateStream(strings.NewReader(`{"a":1}`), &out, 0)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "valid\n", out.String())
}

func TestValidateStreamReportsKindAndOffset(t *testing.T) {
	var out bytes.Buffer
	valid, err := validateStream(strings.NewReader(`{"x":42,`), &out, 0)
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Contains(t, out.String(), "offset 8")
}

func TestOptFlagsOptions(t *testing.T) {
	f := &optFlags{jsonMode: true, base64: true, bypassLimit: true}
	opts := f.Options()
	assert.Equal(t, taxon.OptJSONMode|taxon.OptBinAsBase64|taxon.OptBypassNestingLimit, opts)
}

func TestLoadConfigMissingFileYieldsZeroValue(t *testing.T) {
	cfg, err := loadConfig("/nonexistent/path/taxon.yaml")
	require.NoError(t, err)
	assert.False(t, cfg.JSONMode)
	assert.False(t, cfg.BinAsBase64)
}
