package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the fields the registry accepts",
	Long: `List every field of the active registry with its aliases and type.
Boolean fields also list the flags they accept.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		for _, field := range reg.Fields() {
			line := fmt.Sprintf("%-12s %-18s %s", field.Name, strings.Join(field.Aliases, ", "), field.Type)
			fmt.Println(strings.TrimRight(line, " "))
			if len(field.Flags) > 0 {
				names := make([]string, 0, len(field.Flags))
				for name := range field.Flags {
					names = append(names, name)
				}
				sort.Strings(names)
				fmt.Printf("%-12s flags: %s\n", "", strings.Join(names, ", "))
			}
			if len(field.Enum) > 0 {
				fmt.Printf("%-12s one of: %s\n", "", strings.Join(field.Enum, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
}
