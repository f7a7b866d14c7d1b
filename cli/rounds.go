package cli

import (
	"github.com/spf13/cobra"
)

func NewRoundsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rounds [publish|latest]",
		Short: "Rounds manager",
		Long:  `Publish end-of-round aggregates and fetch the latest one.`,
	}

	publishCmd := &cobra.Command{
		Use:   "publish <model_id> <weights>",
		Short: "Publish round aggregate",
		Long: `Publish the aggregate for the current round and advance the model to the
next round. Requires the leadAggregator role.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 2 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			m, err := csdk.PublishAggregate(args[0], args[1])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, m)
		},
	}

	latestCmd := &cobra.Command{
		Use:   "latest <model_id>",
		Short: "Latest aggregate",
		Long:  `Fetch the previous round's aggregate, the starting point for the current round.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			agg, err := csdk.LatestAggregate(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, agg)
		},
	}

	cmd.AddCommand(publishCmd)
	cmd.AddCommand(latestCmd)

	return cmd
}

func NewWhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show caller identity",
		Long:  `Show the caller's identity and role as the coordinator resolves them.`,
		Run: func(cmd *cobra.Command, args []string) {
			info, err := csdk.WhoAmI()
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, info)
		},
	}
}
