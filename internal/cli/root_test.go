package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dbattr", cmd.Use)
	assert.Contains(t, cmd.Long, "ranked qualities")
}

func TestCommandPresence(t *testing.T) {
	commands := [][]string{
		{"qualities"},
		{"compare"},
		{"sanitize"},
		{"series", "add"},
		{"series", "find"},
		{"series", "year"},
		{"release", "add"},
		{"release", "list"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
			cmd := NewRootCommand()
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, name, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))

	dbFlag := cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)
}

func TestCompareCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compareCmd, _, err := cmd.Find([]string{"compare"})
	require.NoError(t, err)

	columnFlag := compareCmd.Flags().Lookup("column")
	require.NotNil(t, columnFlag)
	assert.Equal(t, "quality", columnFlag.DefValue)
}

func TestSeriesAddCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	addCmd, _, err := cmd.Find([]string{"series", "add"})
	require.NoError(t, err)

	for _, name := range []string{"genres", "premiered", "status", "schedule"} {
		assert.NotNil(t, addCmd.Flags().Lookup(name), "missing --%s", name)
	}
}

func TestReleaseListCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	listCmd, _, err := cmd.Find([]string{"release", "list"})
	require.NoError(t, err)

	require.NotNil(t, listCmd.Flags().Lookup("min"))

	bestFlag := listCmd.Flags().Lookup("best")
	require.NotNil(t, bestFlag)
	assert.Equal(t, "false", bestFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))
	assert.True(t, isValidFormat("yaml"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "qualities"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
