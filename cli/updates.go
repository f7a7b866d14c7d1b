package cli

import (
	"os"
	"strconv"

	"github.com/absmach/fedledger/pkg/sdk"
	"github.com/spf13/cobra"
)

var weightsFile string

func NewUpdatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "updates [submit|submit-cbor|count|quorum|list]",
		Short: "Client updates manager",
		Long:  `Submit client updates and inspect the current round's collection state.`,
	}

	submitCmd := &cobra.Command{
		Use:   "submit <model_id> <weights> <dataset_size>",
		Short: "Submit update",
		Long: `Submit the caller's update for the current round. Requires the trainer role.
A resubmission for the same round replaces the previous one.

Examples:
  # Submit inline weights
  fedledger-cli updates submit mnist "0.1,0.9,0.3" 600

  # Read weights from a file
  fedledger-cli updates submit mnist - 600 --weights-file weights.b64`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 3 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			weights := args[1]
			if weightsFile != "" {
				data, err := os.ReadFile(weightsFile)
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				weights = string(data)
			}

			m, err := csdk.SubmitUpdate(args[0], sdk.UpdateRequest{
				Weights:     weights,
				DatasetSize: args[2],
			})
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, m)
		},
	}
	submitCmd.Flags().StringVar(
		&weightsFile,
		"weights-file",
		"",
		"Read the weights payload from a file instead of the command line",
	)

	submitCBORCmd := &cobra.Command{
		Use:   "submit-cbor <file>",
		Short: "Submit CBOR update",
		Long:  `Submit a CBOR-encoded update read from a file. Requires the trainer role.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			m, err := csdk.SubmitUpdateCBOR(data)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, m)
		},
	}

	countCmd := &cobra.Command{
		Use:   "count <model_id>",
		Short: "Count received updates",
		Long:  `Count the updates stored for the model's current round.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			n, err := csdk.ReceivedCount(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, map[string]int{"received": n})
		},
	}

	quorumCmd := &cobra.Command{
		Use:   "quorum <model_id>",
		Short: "Check round quorum",
		Long:  `Report whether the current round collected exactly clientsPerRound updates.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			ok, err := csdk.CheckQuorum(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, map[string]bool{"allReceived": ok})
		},
	}

	listCmd := &cobra.Command{
		Use:   "list <model_id> [round]",
		Short: "List round updates",
		Long:  `List the updates of one round, or of the current round when no round is given. Requires the leadAggregator role.`,
		Run: func(cmd *cobra.Command, args []string) {
			switch len(args) {
			case 1:
				list, err := csdk.CurrentRoundUpdates(args[0])
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, list)
			case 2:
				round, err := strconv.Atoi(args[1])
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				list, err := csdk.RoundUpdates(args[0], round)
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, list)
			default:
				logUsageCmd(*cmd, cmd.Use)
			}
		},
	}

	cmd.AddCommand(submitCmd)
	cmd.AddCommand(submitCBORCmd)
	cmd.AddCommand(countCmd)
	cmd.AddCommand(quorumCmd)
	cmd.AddCommand(listCmd)

	return cmd
}
