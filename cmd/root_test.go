package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownFlagFailsWithoutSideEffects(t *testing.T) {
	t.Chdir(t.TempDir())

	rootCmd.SetArgs([]string{"--definitely-not-a-flag"})
	err := rootCmd.Execute()
	require.Error(t, err)

	_, statErr := os.Stat("reports")
	assert.True(t, os.IsNotExist(statErr))
}

func TestHelpHasNoSideEffects(t *testing.T) {
	t.Chdir(t.TempDir())

	// Cobra's help flag persists on the shared rootCmd; reset it so later
	// Execute calls in this package don't short-circuit into the help path.
	t.Cleanup(func() {
		f := rootCmd.Flags().Lookup("help")
		f.Value.Set("false")
		f.Changed = false
	})

	rootCmd.SetArgs([]string{"--help"})
	require.NoError(t, rootCmd.Execute())

	_, statErr := os.Stat("reports")
	assert.True(t, os.IsNotExist(statErr))
}

func TestModeFlagsAreMutuallyExclusive(t *testing.T) {
	t.Chdir(t.TempDir())

	rootCmd.SetArgs([]string{"--jmeter-only", "--selenium-only"})
	err := rootCmd.Execute()
	require.Error(t, err)

	_, statErr := os.Stat("reports")
	assert.True(t, os.IsNotExist(statErr))
}

func TestParseTagMap(t *testing.T) {
	m, err := parseTagMap("name=FullName, address=HomeAddress")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"name": "FullName", "address": "HomeAddress"}, m)

	m, err = parseTagMap("")
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = parseTagMap("no-equals-sign")
	require.Error(t, err)
}
