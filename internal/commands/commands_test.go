package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"serve", "migrate"}, names)
}

func TestMigrateCommand_CreatesDatabase(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "data", "expenses.db")

	root := NewRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetArgs([]string{"migrate", "--db", dbPath})

	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	assert.NoError(t, err)

	// A second run finds nothing to apply.
	root = NewRootCommand()
	root.SetArgs([]string{"migrate", "--db", dbPath})
	assert.NoError(t, root.Execute())
}

func TestServeCommand_RejectsBadPort(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "x.db"))

	root := NewRootCommand()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"serve", "--port", "70000"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 70000")
}
