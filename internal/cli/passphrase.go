package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// PassphraseEnv holds the passphrase for non-interactive use.
const PassphraseEnv = "CLICKMATE_PASSPHRASE"

var errNoPassphrase = errors.New("no passphrase: use --passphrase-stdin, set " + PassphraseEnv + ", or run in a terminal")

// readPassphrase uses the following precedence:
// 1. first line of stdin when --passphrase-stdin is set
// 2. CLICKMATE_PASSPHRASE if set (even if empty)
// 3. hidden terminal prompt, asked twice when confirm is set
func readPassphrase(cmd *cobra.Command, fromStdin, confirm bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read passphrase from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	if pass, ok := os.LookupEnv(PassphraseEnv); ok {
		return pass, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoPassphrase
	}
	pass, err := prompt(cmd.ErrOrStderr(), fd, "Passphrase: ")
	if err != nil {
		return "", err
	}
	if pass == "" {
		return "", fmt.Errorf("empty passphrase entered")
	}
	if confirm {
		again, err := prompt(cmd.ErrOrStderr(), fd, "Repeat passphrase: ")
		if err != nil {
			return "", err
		}
		if again != pass {
			return "", fmt.Errorf("passphrases do not match")
		}
	}
	return pass, nil
}

func prompt(w io.Writer, fd int, label string) (string, error) {
	fmt.Fprint(w, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	return string(b), nil
}
