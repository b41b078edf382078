package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wubrg/tutor"
)

var compileCmd = &cobra.Command{
	Use:   "compile <query>",
	Short: "Compile a query into a SQL WHERE fragment",
	Long: `Compile a card search query and print the WHERE fragment together
with its bind parameters.

Examples:
  tutor compile "t:creature c:gu"
  tutor compile -d sqlite "pow>=4 or kw:trample"
  tutor compile --registry fields.yaml "karma>=2"`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := args[0]

		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		dialect, err := selectedDialect()
		if err != nil {
			return err
		}

		compiled, err := tutor.CompileWithOptions(raw,
			tutor.WithRegistry(reg),
			tutor.WithDialect(dialect),
		)
		if err != nil {
			printCaret(raw, err)
			return err
		}

		fmt.Println(compiled.SQL)
		for i, arg := range compiled.Args {
			fmt.Printf("  $%d = %v\n", i+1, arg)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
}
