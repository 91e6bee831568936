package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/pkg/version"
)

const defaultConfigFile = "apiserver.yaml"

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cnst.CommandName, version.Get())
		},
	}

	rootCmd = &cobra.Command{
		Use:   cnst.CommandName,
		Short: "Casedesk API server",
		Long:  `Casedesk API server exposes the multi-tenant workplace harassment case management API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context())
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", defaultConfigFile, "path to configuration file")
	rootCmd.AddCommand(versionCmd, serveCmd, migrateCmd, tenantCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
