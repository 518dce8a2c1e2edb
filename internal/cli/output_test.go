package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/inscripciones/internal/attendee"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]int{"total": 5}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("DUPLICATE_KEY", "El DNI ya está registrado", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DUPLICATE_KEY", resp.Error.Code)
	assert.Equal(t, "El DNI ya está registrado", resp.Error.Message)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Participante registrado correctamente")
	require.NoError(t, err)
	assert.Equal(t, "Participante registrado correctamente\n", buf.String())
}

func TestOutputFormatter_TextSuccessUsesStringer(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, formatter.Success(registerResult{ID: 6, Message: "Participante registrado correctamente"}))
	assert.Equal(t, "Participante registrado correctamente (id 6)\n", buf.String())
}

func TestOutputFormatter_Render(t *testing.T) {
	text := func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "Total de inscriptos: 5")
		return err
	}

	t.Run("text", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "text", Writer: buf}
		require.NoError(t, f.Render(map[string]int{"total": 5}, text))
		assert.Equal(t, "Total de inscriptos: 5\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		f := &OutputFormatter{Format: "json", Writer: buf}
		require.NoError(t, f.Render(map[string]int{"total": 5}, text))
		assert.JSONEq(t, `{"status":"ok","data":{"total":5}}`, buf.String())
	})
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("NOT_FOUND", "No se encontró ningún inscripto con ese DNI", "lookup: NOT_FOUND")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [NOT_FOUND]")
	assert.NotContains(t, buf.String(), "Details:")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	err := formatter.Error("NOT_FOUND", "No se encontró ningún inscripto con ese DNI", "lookup: NOT_FOUND")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Details: lookup: NOT_FOUND")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			errBuf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    buf,
				ErrWriter: errBuf,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Exporting %d rows", 5)

			assert.Empty(t, buf.String(), "diagnostics never go to Writer when ErrWriter is set")
			if tt.wantLog {
				assert.Contains(t, errBuf.String(), "Exporting 5 rows")
			} else {
				assert.Empty(t, errBuf.String())
			}
		})
	}
}

func TestOutputFormatter_VerboseLogFallsBackToWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	formatter.VerboseLog("Escribiendo %s en %s", "csv", "out.csv")
	assert.Equal(t, "Escribiendo csv en out.csv\n", buf.String())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"exit error", NewExitError(ExitCommandError, "boom"), ExitCommandError},
		{"missing field", attendee.NewError(attendee.KindMissingRequiredField, attendee.FieldEmail), ExitFailure},
		{"duplicate", fmt.Errorf("register: %w", attendee.NewError(attendee.KindDuplicateKey, attendee.FieldNationalID)), ExitFailure},
		{"not found", attendee.NewError(attendee.KindNotFound, attendee.FieldNationalID), ExitFailure},
		{"storage", fmt.Errorf("list: %w", attendee.WrapError(attendee.KindStorageUnavailable, errors.New("disk"))), ExitCommandError},
		{"plain", errors.New("accepts 1 arg(s)"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDescribeError(t *testing.T) {
	code, msg := describeError(fmt.Errorf("register: %w", attendee.NewError(attendee.KindInvalidEmailFormat, attendee.FieldEmail)))
	assert.Equal(t, "INVALID_EMAIL_FORMAT", code)
	assert.Equal(t, "El email debe contener el símbolo @", msg)

	code, msg = describeError(WrapExitError(ExitCommandError, "failed to load config", errors.New("bad file")))
	assert.Equal(t, "COMMAND_ERROR", code)
	assert.Equal(t, "failed to load config: bad file", msg)

	code, _ = describeError(errors.New("unknown command"))
	assert.Equal(t, "INVALID_ARGUMENT", code)
}

func TestExitError_Unwrap(t *testing.T) {
	cause := attendee.NewError(attendee.KindStorageUnavailable, "")
	err := WrapExitError(ExitCommandError, "failed to open database", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to open database: STORAGE_UNAVAILABLE", err.Error())
}
