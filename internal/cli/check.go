package cli

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/wubrg/tutor"
)

var checkCmd = &cobra.Command{
	Use:   "check <query>",
	Short: "Check a query and print its structure",
	Long: `Check that a card search query parses and type-checks against the
field registry. A valid query prints its tree; an invalid one points
at the position of the problem.

Examples:
  tutor check "t:creature c:gu"
  tutor check "cmc>=2 zzz:4"`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := args[0]

		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		dump, err := tutor.Explain(raw, tutor.WithRegistry(reg))
		if err != nil {
			printCaret(raw, err)
			return err
		}

		fmt.Println(dump)
		return nil
	},
}

// printCaret points at the place in raw where a query error starts.
// Error offsets count bytes; the caret column counts runes so
// multi-byte characters do not push it off target.
func printCaret(raw string, err error) {
	pos, ok := errorPosition(err)
	if !ok {
		return
	}
	if pos > len(raw) {
		pos = len(raw)
	}
	column := utf8.RuneCountInString(raw[:pos])
	fmt.Fprintln(os.Stderr, raw)
	fmt.Fprintln(os.Stderr, strings.Repeat(" ", column)+"^")
}

// errorPosition extracts the byte offset carried by a query error.
func errorPosition(err error) (int, bool) {
	if syntaxErr, ok := tutor.AsSyntaxError(err); ok {
		return syntaxErr.Position, true
	}
	if fieldErr, ok := tutor.AsUnknownFieldError(err); ok {
		return fieldErr.Position, true
	}
	if typeErr, ok := tutor.AsTypeError(err); ok {
		return typeErr.Position, true
	}
	return 0, false
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
