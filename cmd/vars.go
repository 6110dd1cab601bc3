package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

var (
	flags    *Flags = DefaultFlags()
	savePath string

	numRuns                int
	episodes               int
	horizon                int
	maxConsecutiveErrors   int
	maxConsecutiveTimeouts int
	episodeTimeout         int
	parallelism            int

	numEnvs        int
	totalTimesteps int
	evalEpisodes   int
	alpha          float64
	gamma          float64
	normalize      bool
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&savePath, "save-path", flags.SavePath, "Path to save results")

	cmd.PersistentFlags().IntVar(&numRuns, "num-runs", flags.NumRuns, "Number of runs")
	cmd.PersistentFlags().IntVar(&episodes, "episodes", flags.Episodes, "Number of episodes")
	cmd.PersistentFlags().IntVar(&horizon, "horizon", flags.Horizon, "Horizon")
	cmd.PersistentFlags().IntVar(&maxConsecutiveErrors, "max-consecutive-errors", flags.MaxConsecutiveErrors, "Maximum number of consecutive errors")
	cmd.PersistentFlags().IntVar(&maxConsecutiveTimeouts, "max-consecutive-timeouts", flags.MaxConsecutiveTimeouts, "Maximum number of consecutive timeouts")
	cmd.PersistentFlags().IntVar(&episodeTimeout, "episode-timeout", int(flags.EpisodeTimeout.Seconds()), "Episode timeout")
	cmd.PersistentFlags().IntVar(&parallelism, "parallelism", flags.Parallelism, "Number of parallel runs")

	cmd.PersistentFlags().IntVar(&numEnvs, "num-envs", flags.NumEnvs, "Number of vectorized environments")
	cmd.PersistentFlags().IntVar(&totalTimesteps, "total-timesteps", flags.TotalTimesteps, "Timestep budget for learning")
	cmd.PersistentFlags().IntVar(&evalEpisodes, "eval-episodes", flags.EvalEpisodes, "Number of evaluation episodes")
	cmd.PersistentFlags().Float64Var(&alpha, "alpha", flags.Alpha, "Learning rate")
	cmd.PersistentFlags().Float64Var(&gamma, "gamma", flags.Gamma, "Discount factor")
	cmd.PersistentFlags().BoolVar(&normalize, "normalize", flags.Normalize, "Wrap the vectorized environment with observation normalization")
}

func UpdateFlags() {
	flags.SavePath = savePath

	flags.NumRuns = numRuns
	flags.Episodes = episodes
	flags.Horizon = horizon
	flags.MaxConsecutiveErrors = maxConsecutiveErrors
	flags.MaxConsecutiveTimeouts = maxConsecutiveTimeouts
	flags.EpisodeTimeout = time.Duration(episodeTimeout) * time.Second
	flags.Parallelism = parallelism

	flags.NumEnvs = numEnvs
	flags.TotalTimesteps = totalTimesteps
	flags.EvalEpisodes = evalEpisodes
	flags.Alpha = alpha
	flags.Gamma = gamma
	flags.Normalize = normalize
}
