package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// maxInputSize bounds what the CLI reads from stdin.
const maxInputSize = 1 << 20

// readSecret prompts without echo when stdin is a terminal and otherwise reads
// all of stdin. A single trailing newline is dropped.
func readSecret(cmd *cobra.Command, prompt string) ([]byte, error) {
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return nil, fmt.Errorf("read secret: %w", err)
		}
		return b, nil
	}
	return readInput(cmd.InOrStdin())
}

// readInput reads r up to maxInputSize and drops one trailing newline.
func readInput(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxInputSize+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if len(b) > maxInputSize {
		return nil, fmt.Errorf("%w: input larger than %d bytes", errInvalidInput, maxInputSize)
	}
	b = bytes.TrimSuffix(b, []byte("\n"))
	b = bytes.TrimSuffix(b, []byte("\r"))
	return b, nil
}

// argOrStdin returns args[0] unless it is absent or "-", in which case stdin is read.
func argOrStdin(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) > 0 && args[0] != "-" {
		return []byte(args[0]), nil
	}
	return readInput(cmd.InOrStdin())
}
