package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TS01: serve exposes corpus, watch, and partition flags
func TestServeCmd_Flags(t *testing.T) {
	cmd := newServeCmd()

	for _, flag := range []string{"corpus", "watch", "by-source"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %q", flag)
	}
}

// TS02: serve with a missing corpus file fails before starting the server
func TestServeCmd_MissingCorpus(t *testing.T) {
	_, dataDir := writeCorpus(t)

	_, err := execute(t, "serve", "--corpus", dataDir+"/nope.md", "--data-dir", dataDir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read corpus")
}
