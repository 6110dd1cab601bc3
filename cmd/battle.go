package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/multiagent-rl/analysis"
	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/envs"
	"github.com/zeu5/multiagent-rl/policies"
)

func BattleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "battle",
		Short: "Compare policies on the turn-based battle",
		Run: func(cmd *cobra.Command, args []string) {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)

			doneCh := make(chan struct{})

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-sigCh:
				case <-doneCh:
				}
				cancel()
			}()

			cmp := prepareBattleComparison(flags)
			cmp.Run(ctx, flags.NumRuns, &core.RunConfig{
				Episodes:                     flags.Episodes,
				Horizon:                      flags.Horizon,
				ThresholdConsecutiveErrors:   flags.MaxConsecutiveErrors,
				ThresholdConsecutiveTimeouts: flags.MaxConsecutiveTimeouts,
				EpisodeTimeout:               flags.EpisodeTimeout,
			}, flags.Parallelism)
			close(doneCh)
		},
	}

	return cmd
}

func prepareBattleComparison(flags *Flags) *core.ParallelComparison {
	cmp := core.NewParallelComparison()

	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "random",
		Environment: &envs.TurnBattleConstructor{},
		Policies: map[core.AgentID]core.PolicyConstructor{
			envs.BattleAgent1: &policies.RandomPolicyConstructor{},
			envs.BattleAgent2: &policies.RandomPolicyConstructor{},
		},
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "qlearning-vs-random",
		Environment: &envs.TurnBattleConstructor{},
		Policies: map[core.AgentID]core.PolicyConstructor{
			envs.BattleAgent1: policies.NewEpsilonGreedyPolicyConstructor(flags.Alpha, flags.Gamma, 0.1),
			envs.BattleAgent2: &policies.RandomPolicyConstructor{},
		},
	})

	cmp.AddAnalysis(
		"returns",
		analysis.NewReturnAnalyzerConstructor(envs.BattleAgent1, envs.BattleAgent2),
		analysis.NewMeanReturnComparatorConstructor(flags.SavePath),
	)

	return cmp
}
