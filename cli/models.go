package cli

import (
	"github.com/absmach/fedledger/pkg/sdk"
	"github.com/spf13/cobra"
)

var csdk sdk.SDK

func SetCoordinatorSDK(s sdk.SDK) {
	csdk = s
}

func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models [create|start|view|trained]",
		Short: "Models manager",
		Long:  `Create models, start training, view metadata and fetch the trained result.`,
	}

	createCmd := &cobra.Command{
		Use:   "create <model_id> <name> <clients_per_round> <training_rounds>",
		Short: "Create model",
		Long: `Register a new federated training job. Requires the flAdmin role.

Examples:
  # Five rounds over three trainers per round
  fedledger-cli models create mnist "digit classifier" 3 5`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 4 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			m, err := csdk.CreateModel(sdk.ModelRequest{
				ModelID:         args[0],
				Name:            args[1],
				ClientsPerRound: args[2],
				TrainingRounds:  args[3],
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, m)
		},
	}

	startCmd := &cobra.Command{
		Use:   "start <model_id>",
		Short: "Start training",
		Long:  `Flip a model to started so trainers begin submitting updates. Requires flAdmin.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			m, err := csdk.StartTraining(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, m)
		},
	}

	viewCmd := &cobra.Command{
		Use:   "view <model_id>",
		Short: "View model",
		Long:  `View model metadata.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			m, err := csdk.GetModel(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, m)
		},
	}

	trainedCmd := &cobra.Command{
		Use:   "trained <model_id>",
		Short: "Fetch trained model",
		Long:  `Fetch the final aggregate of a finished training.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			agg, err := csdk.TrainedModel(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, agg)
		},
	}

	cmd.AddCommand(createCmd)
	cmd.AddCommand(startCmd)
	cmd.AddCommand(viewCmd)
	cmd.AddCommand(trainedCmd)

	return cmd
}
