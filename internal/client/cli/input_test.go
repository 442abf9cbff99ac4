package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, tty bool, read func(int) ([]byte, error)) {
	t.Helper()
	origRead, origTTY := readPassword, isTerminal
	readPassword = read
	isTerminal = func(int) bool { return tty }
	t.Cleanup(func() { readPassword, isTerminal = origRead, origTTY })
}

func TestReadLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "line", input: "ana@example.com\n", want: "ana@example.com"},
		{name: "surrounding spaces", input: "  ana@example.com \r\n", want: "ana@example.com"},
		{name: "last line without newline", input: "ana@example.com", want: "ana@example.com"},
		{name: "closed input", input: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := ReadLine(bufio.NewReader(strings.NewReader(tt.input)), &out, "Email")
			assert.Equal(t, "Email: ", out.String())
			if tt.wantErr {
				assert.ErrorIs(t, err, errNoInput)
				assert.Contains(t, err.Error(), "email")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadSecret_Terminal(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return []byte("s3cret"), nil })

	var out bytes.Buffer
	pw, err := ReadSecret(bufio.NewReader(strings.NewReader("ignored\n")), &out, "Password")
	require.NoError(t, err)
	assert.Equal(t, []byte("s3cret"), pw)
	assert.Equal(t, "Password: \n", out.String())
}

func TestReadSecret_TerminalError(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return nil, errors.New("boom") })

	var out bytes.Buffer
	_, err := ReadSecret(bufio.NewReader(strings.NewReader("")), &out, "Password")
	assert.EqualError(t, err, "read password: boom")
}

func TestReadSecret_Piped(t *testing.T) {
	stubTerminal(t, false, func(int) ([]byte, error) {
		t.Fatal("terminal read on piped input")
		return nil, nil
	})

	var out bytes.Buffer
	pw, err := ReadSecret(bufio.NewReader(strings.NewReader("piped-pw\n")), &out, "Password")
	require.NoError(t, err)
	assert.Equal(t, []byte("piped-pw"), pw)

	_, err = ReadSecret(bufio.NewReader(strings.NewReader("")), &out, "Password")
	assert.ErrorIs(t, err, errNoInput)
}
