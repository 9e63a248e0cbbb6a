package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/syntaxiz/internal/syntaxcheck"
)

// errInvalid makes the process exit non-zero without printing usage.
var errInvalid = errors.New("source does not parse")

var checkCmd = &cobra.Command{
	Use:   "check [file|-]",
	Short: "Parse-check JavaScript from a file or stdin",
	Long: `Parse a JavaScript file (or stdin when the argument is "-" or missing) and
print "valid", or "invalid: line:col message". Exits 1 when the source does
not parse.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		res := syntaxcheck.New().Check(src)
		fmt.Fprintln(cmd.OutOrStdout(), formatCheck(res))
		if !res.Valid() {
			return errInvalid
		}
		return nil
	},
}

func readSource(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func formatCheck(res syntaxcheck.Result) string {
	if res.Valid() {
		return "valid"
	}
	f := res.Failure
	if f.Line == 0 {
		return "invalid: " + f.Message
	}
	return fmt.Sprintf("invalid: %d:%d %s", f.Line, f.Column, f.Message)
}
