package analysis

import (
	"fmt"
	"path"
	"strconv"

	"github.com/zeu5/multiagent-rl/core"
	"github.com/zeu5/multiagent-rl/util"
	"gonum.org/v1/gonum/stat"
)

// MeanReturnComparator prints the mean and standard deviation of each
// agent's episode returns per experiment and saves the datasets as JSON.
type MeanReturnComparator struct {
	savePath string
	run      int
}

var _ core.Comparator = &MeanReturnComparator{}

func NewMeanReturnComparator(savePath string, run int) *MeanReturnComparator {
	return &MeanReturnComparator{
		savePath: savePath,
		run:      run,
	}
}

func (m *MeanReturnComparator) Compare(experiments []string, datasets []core.DataSet) {
	for i, name := range experiments {
		if datasets[i] == nil {
			fmt.Printf("Experiment: %s, no dataset (errored)\n", name)
			continue
		}
		dataset, ok := datasets[i].(*ReturnDataset)
		if !ok {
			continue
		}
		for agent, returns := range dataset.Returns {
			if len(returns) == 0 {
				continue
			}
			mean := stat.Mean(returns, nil)
			std := stat.StdDev(returns, nil)
			fmt.Printf(
				"Experiment: %s, Agent: %s, Episodes: %d, MeanReturn: %.3f, StdReturn: %.3f\n",
				name, agent, len(returns), mean, std,
			)
		}
		if m.savePath != "" {
			file := path.Join(m.savePath, strconv.Itoa(m.run), name+"_returns.json")
			util.SaveJson(file, dataset)
		}
	}
}

type MeanReturnComparatorConstructor struct {
	SavePath string
}

var _ core.ComparatorConstructor = &MeanReturnComparatorConstructor{}

func NewMeanReturnComparatorConstructor(savePath string) *MeanReturnComparatorConstructor {
	return &MeanReturnComparatorConstructor{
		SavePath: savePath,
	}
}

func (m *MeanReturnComparatorConstructor) NewComparator(run int) core.Comparator {
	return NewMeanReturnComparator(m.SavePath, run)
}
