package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

const defaultModulePath = "github.com/wubrg/tutor"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show tutor version and build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		version := "devel"
		modulePath := defaultModulePath
		goVersion := runtime.Version()

		if info, ok := debug.ReadBuildInfo(); ok {
			if info.Main.Path != "" {
				modulePath = info.Main.Path
			}
			if info.Main.Version != "" && info.Main.Version != "(devel)" {
				version = info.Main.Version
			}
			if info.GoVersion != "" {
				goVersion = info.GoVersion
			}
		}

		fmt.Printf("tutor %s\n", version)
		fmt.Printf("module: %s\n", modulePath)
		fmt.Printf("go: %s\n", goVersion)
		fmt.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
