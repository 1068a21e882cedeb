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

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// promptSecret prints a prompt and reads a line from the terminal without
// echo. The caller should not retain the value longer than needed.
func promptSecret(w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}

	secret := string(raw)
	for i := range raw {
		raw[i] = 0
	}
	return secret, nil
}

// promptLine prints a prompt and reads one echoed line from r.
func promptLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return "", err
	}
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readBody returns the message body: the joined args when present, otherwise
// everything piped on stdin.
func readBody(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read body from stdin: %w", err)
	}
	body := strings.TrimSpace(string(data))
	if body == "" {
		return "", errors.New("empty body: pass it as arguments or pipe it on stdin")
	}
	return body, nil
}
