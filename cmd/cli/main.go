package main

import (
	"log"
	"os"

	fedledger "github.com/absmach/fedledger"
	"github.com/absmach/fedledger/cli"
	"github.com/absmach/fedledger/pkg/sdk"
	"github.com/spf13/cobra"
)

const defCoordinatorURL = "http://localhost:7171"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "fedledger-cli",
		Short: "Fedledger CLI",
		Long:  `Fedledger CLI is a command line interface for driving federated training rounds through the coordinator.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			sdkConf := sdk.Config{
				CoordinatorURL: defCoordinatorURL,
			}

			if configPath != "" {
				cfg, err := fedledger.LoadConfig(configPath)
				if err != nil {
					log.Fatal(err)
				}
				if cfg.Coordinator.URL != "" {
					sdkConf.CoordinatorURL = cfg.Coordinator.URL
				}
				sdkConf.TLSVerification = cfg.Coordinator.TLSVerification
				sdkConf.Identity = sdk.Identity{
					ClientID:     cfg.Identity.ClientID,
					MSPID:        cfg.Identity.MSPID,
					EnrollmentID: cfg.Identity.EnrollmentID,
					Roles:        cfg.Identity.Roles,
				}
			}
			if url := os.Getenv("FEDLEDGER_COORDINATOR_URL"); url != "" {
				sdkConf.CoordinatorURL = url
			}

			cli.SetCoordinatorSDK(sdk.NewSDK(sdkConf))
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the party configuration file")

	rootCmd.AddCommand(cli.NewModelsCmd())
	rootCmd.AddCommand(cli.NewUpdatesCmd())
	rootCmd.AddCommand(cli.NewRoundsCmd())
	rootCmd.AddCommand(cli.NewWhoAmICmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
