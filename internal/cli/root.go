// Package cli implements the command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wubrg/tutor"
)

var (
	registryPath string
	dialectFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Tutor - a card search query compiler",
	Long: `Tutor compiles card search queries into parameterized SQL WHERE
fragments for PostgreSQL or SQLite.

Queries combine field predicates with boolean operators:

  t:creature c:gu cmc<=3
  o:/draws? .* cards?/ or kw:flying
  -is:reprint (f:modern or f:legacy)

Every value travels as a bind parameter; the fragment itself never
contains query text.`,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&registryPath, "registry", "", "Path to a YAML field registry (default: built-in card fields)")
	rootCmd.PersistentFlags().StringVarP(&dialectFlag, "dialect", "d", "postgres", "SQL dialect: postgres or sqlite")
}

// loadRegistry returns the field registry selected by --registry.
func loadRegistry() (*tutor.Registry, error) {
	if registryPath == "" {
		return tutor.DefaultRegistry(), nil
	}
	return tutor.LoadRegistryFile(registryPath)
}

// selectedDialect maps the --dialect flag to a compiler dialect.
func selectedDialect() (tutor.Dialect, error) {
	switch dialectFlag {
	case "", "postgres":
		return tutor.DialectPostgres, nil
	case "sqlite":
		return tutor.DialectSQLite, nil
	default:
		return "", fmt.Errorf("unknown dialect %q (expected postgres or sqlite)", dialectFlag)
	}
}
