package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/gosuri/uilive"
	"github.com/spf13/cobra"
	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/envs"
	"github.com/zeu5/multiagent-rl/policies"
	"github.com/zeu5/multiagent-rl/vecenv"
)

func IdentityCommand() *cobra.Command {
	var dim int
	var epLength int
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Train tabular Q-learning on the identity environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			go func() {
				<-sigCh
				cancel()
			}()

			constructor := core.EnvFunc(func() core.Env {
				return envs.NewIdentityEnv(dim, epLength)
			})
			var venv vecenv.VecEnv
			venv, err := vecenv.NewDummyVecEnv(constructor, flags.NumEnvs)
			if err != nil {
				return err
			}
			if flags.Normalize {
				venv = vecenv.NewVecNormalize(venv, vecenv.DefaultNormalizeConfig())
			}
			defer venv.Close()

			writer := uilive.New()
			writer.Start()

			config := policies.DefaultQLearnerConfig()
			config.Alpha = flags.Alpha
			config.Gamma = flags.Gamma
			config.Writer = writer
			learner, err := policies.NewQLearner(venv, config)
			if err != nil {
				return err
			}
			if err := learner.Learn(ctx, flags.TotalTimesteps); err != nil {
				writer.Stop()
				return err
			}
			writer.Stop()

			var mean, std float64
			if flags.Normalize {
				// The eval chain gets the training statistics before the
				// model sees its observations. Rewards stay unscaled so
				// the reported return is the raw one.
				evalVenv, err := vecenv.NewDummyVecEnv(constructor, 1)
				if err != nil {
					return err
				}
				evalConfig := vecenv.DefaultNormalizeConfig()
				evalConfig.Training = false
				evalConfig.NormReward = false
				evalNorm := vecenv.NewVecNormalize(evalVenv, evalConfig)
				defer evalNorm.Close()
				if err := vecenv.SyncNormalization(venv, evalNorm); err != nil {
					return err
				}
				fmt.Printf("Synced observation statistics: mean %v\n", evalNorm.ObsRMS().Mean)
				mean, std, err = policies.EvaluateVec(learner, evalNorm, flags.EvalEpisodes)
				if err != nil {
					return err
				}
			} else {
				var err error
				mean, std, err = policies.Evaluate(learner, envs.NewIdentityEnv(dim, epLength), flags.EvalEpisodes)
				if err != nil {
					return err
				}
			}
			fmt.Printf("Evaluation over %d episodes: mean return %.3f, std %.3f\n", flags.EvalEpisodes, mean, std)

			return learner.Save(path.Join(flags.SavePath, "identity_qtable.jsonl"))
		},
	}
	cmd.Flags().IntVar(&dim, "dim", 4, "Size of the identity environment's space")
	cmd.Flags().IntVar(&epLength, "ep-length", 100, "Episode length of the identity environment")

	return cmd
}
