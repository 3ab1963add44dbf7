package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmds := rootCmd.Commands()

	names := make(map[string]bool)
	for _, c := range cmds {
		names[c.Name()] = true
	}

	expected := []string{"analyse", "missing", "fit", "summary", "import", "fetch", "pay", "boundary", "serve", "dict"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "pubstats", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestFitCommand_Flags(t *testing.T) {
	flag := fitCmd.Flags().Lookup("response")
	require.NotNil(t, flag, "fit command should have --response flag")
	assert.Equal(t, "pubs_per_capita", flag.DefValue)

	flag = fitCmd.Flags().Lookup("predictor")
	require.NotNil(t, flag, "fit command should have --predictor flag")
	assert.Equal(t, "median_pay_2017", flag.DefValue)

	flag = fitCmd.Flags().Lookup("format")
	require.NotNil(t, flag)
	assert.Equal(t, "table", flag.DefValue)
}

func TestBoundaryCommand_RequiredFlags(t *testing.T) {
	flag := boundaryCmd.Flags().Lookup("shp")
	require.NotNil(t, flag, "boundary command should have --shp flag")
}

func TestServeCommand_Flags(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag, "serve command should have --port flag")
	assert.Equal(t, "0", flag.DefValue)
}
