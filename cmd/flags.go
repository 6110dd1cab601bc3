package cmd

import (
	"path"
	"time"

	"github.com/zeu5/multiagent-rl/util"
)

type Flags struct {
	SavePath string
	RunFlags
	LearnFlags
	Parallelism int
}

type RunFlags struct {
	NumRuns                int
	Episodes               int
	Horizon                int
	MaxConsecutiveErrors   int
	MaxConsecutiveTimeouts int
	EpisodeTimeout         time.Duration
}

type LearnFlags struct {
	NumEnvs        int
	TotalTimesteps int
	EvalEpisodes   int
	Alpha          float64
	Gamma          float64
	Normalize      bool
}

func DefaultFlags() *Flags {
	return &Flags{
		SavePath: "results",
		RunFlags: RunFlags{
			NumRuns:                1,
			Episodes:               1000,
			Horizon:                25,
			MaxConsecutiveErrors:   20,
			MaxConsecutiveTimeouts: 20,
			EpisodeTimeout:         10 * time.Second,
		},
		LearnFlags: LearnFlags{
			NumEnvs:        4,
			TotalTimesteps: 100000,
			EvalEpisodes:   4,
			Alpha:          0.1,
			Gamma:          0.95,
			Normalize:      false,
		},
		Parallelism: 10,
	}
}

func (f *Flags) Record() {
	util.SaveJson(path.Join(f.SavePath, "config.json"), f)
}
