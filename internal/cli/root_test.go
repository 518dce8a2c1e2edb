package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inscripciones/internal/testutil"
)

// cliResult captures one CLI invocation.
type cliResult struct {
	Stdout string
	Stderr string
	Code   int
}

// runCLI executes the command tree against dbPath with a fixed clock and
// request token.
func runCLI(t *testing.T, dbPath string, args ...string) cliResult {
	t.Helper()

	opts := &RootOptions{
		Clock:  testutil.NewCalendarClock(2024, time.March, 1),
		Tokens: testutil.NewFixedTokenGenerator("test-request"),
	}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	all := append([]string{"--db", dbPath}, args...)
	code := execute(context.Background(), newRootCommand(opts), opts, all, stdout, stderr)

	return cliResult{Stdout: stdout.String(), Stderr: stderr.String(), Code: code}
}

func testDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "inscripciones.db")
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "inscripciones", cmd.Use)
	assert.Contains(t, cmd.Long, "SQLite")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"register"},
		{"list"},
		{"search"},
		{"sort"},
		{"report"},
		{"report", "total"},
		{"report", "institutions"},
		{"lookup"},
		{"export"},
	}

	for _, path := range commands {
		name := path[len(path)-1]
		t.Run(name, func(t *testing.T) {
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

	for _, name := range []string{"config", "db", "no-seed"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "missing --%s", name)
	}
}

func TestRegisterCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	registerCmd, _, err := cmd.Find([]string{"register"})
	require.NoError(t, err)

	for _, name := range []string{"first-name", "last-name", "dni", "email", "phone", "institution"} {
		assert.NotNil(t, registerCmd.Flags().Lookup(name), "missing --%s", name)
	}
}

func TestExportCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	exportCmd, _, err := cmd.Find([]string{"export"})
	require.NoError(t, err)

	typeFlag := exportCmd.Flags().Lookup("type")
	require.NotNil(t, typeFlag)
	assert.Equal(t, "csv", typeFlag.DefValue)

	outFlag := exportCmd.Flags().Lookup("out")
	require.NotNil(t, outFlag)
	assert.Equal(t, "o", outFlag.Shorthand)
}

func TestInvalidFormat(t *testing.T) {
	res := runCLI(t, testDBPath(t), "--format", "xml", "list")

	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stderr, "invalid format")
}

func TestMissingConfigFile(t *testing.T) {
	res := runCLI(t, testDBPath(t), "--config", filepath.Join(t.TempDir(), "nope.cue"), "list")

	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stderr, "Error [COMMAND_ERROR]")
}

func TestUnreachableDatabase(t *testing.T) {
	res := runCLI(t, "/nonexistent/dir/inscripciones.db", "list")

	assert.Equal(t, ExitCommandError, res.Code)
	assert.Contains(t, res.Stderr, "No se pudo acceder a la base de datos de inscripciones")
}

func TestUnknownCommand(t *testing.T) {
	res := runCLI(t, testDBPath(t), "delete")

	assert.Equal(t, ExitFailure, res.Code)
	assert.Contains(t, res.Stderr, "unknown command")
}

func TestExecute_Help(t *testing.T) {
	stdout := &bytes.Buffer{}
	code := Execute(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "register")
	assert.Contains(t, stdout.String(), "lookup")
}
