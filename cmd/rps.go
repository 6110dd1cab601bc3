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

func RPSCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rps",
		Short: "Compare policies on rock-paper-scissors",
		Run: func(cmd *cobra.Command, args []string) {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

			doneCh := make(chan struct{}) // channel for done signal from application

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-sigCh:
				case <-doneCh:
				}
				cancel()
			}()

			cmp := prepareRPSComparison(flags)
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

func prepareRPSComparison(flags *Flags) *core.ParallelComparison {
	cmp := core.NewParallelComparison()

	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "random",
		Environment: &envs.RockPaperScissorsConstructor{},
		Policies: map[core.AgentID]core.PolicyConstructor{
			envs.RPSAgent1: &policies.RandomPolicyConstructor{},
			envs.RPSAgent2: &policies.RandomPolicyConstructor{},
		},
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "qlearning-vs-random",
		Environment: &envs.RockPaperScissorsConstructor{},
		Policies: map[core.AgentID]core.PolicyConstructor{
			envs.RPSAgent1: policies.NewEpsilonGreedyPolicyConstructor(flags.Alpha, flags.Gamma, 0.1),
			envs.RPSAgent2: &policies.RandomPolicyConstructor{},
		},
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "softmax-vs-random",
		Environment: &envs.RockPaperScissorsConstructor{},
		Policies: map[core.AgentID]core.PolicyConstructor{
			envs.RPSAgent1: policies.NewSoftMaxPolicyConstructor(flags.Alpha, flags.Gamma, 0.5),
			envs.RPSAgent2: &policies.RandomPolicyConstructor{},
		},
	})

	cmp.AddAnalysis(
		"returns",
		analysis.NewReturnAnalyzerConstructor(envs.RPSAgent1, envs.RPSAgent2),
		analysis.NewMeanReturnComparatorConstructor(flags.SavePath),
	)
	cmp.AddAnalysis(
		"coverage",
		analysis.NewCoverageAnalyzerConstructor(core.ExactPainter()),
		analysis.NewNoOpComparatorConstructor(),
	)

	return cmp
}
