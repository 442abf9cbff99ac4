package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

var errNoInput = errors.New("no input")

// Terminal access, replaced in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

// ReadLine writes "label: " to w and returns the next line of r, trimmed.
// A last line without newline is accepted; a closed input is errNoInput.
func ReadLine(r *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%s: %w", strings.ToLower(label), errNoInput)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ReadSecret is ReadLine without echo. Piped input (stdin not a terminal)
// is read from r so credentials can come from a script.
//
// The caller wipes the returned slice.
func ReadSecret(r *bufio.Reader, w io.Writer, label string) ([]byte, error) {
	fd := stdinFd()
	if !isTerminal(fd) {
		line, err := ReadLine(r, w, label)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return nil, err
	}
	secret, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return secret, nil
}
