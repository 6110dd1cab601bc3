// Package policies implements tabular action-selection and learning
// strategies over hashed observations.
package policies

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"
)

// QTable is a nested map from state hash and action hash to a value.
type QTable struct {
	table map[string]map[string]float64

	rand *rand.Rand
}

func NewQTable() *QTable {
	return &QTable{
		table: make(map[string]map[string]float64),
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (q *QTable) GetAll(state string) (map[string]float64, bool) {
	values, ok := q.table[state]
	return values, ok
}

func (q *QTable) Get(state, action string, def float64) float64 {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	if _, ok := q.table[state][action]; !ok {
		q.table[state][action] = def
	}
	return q.table[state][action]
}

func (q *QTable) Set(state, action string, val float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	q.table[state][action] = val
}

func (q *QTable) HasState(state string) bool {
	_, ok := q.table[state]
	return ok
}

func (q *QTable) Size() int {
	return len(q.table)
}

// Max returns the best known action for the state and its value, or the
// default when the state has no entries.
func (q *QTable) Max(state string, def float64) (string, float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
		return "", def
	}
	maxAction := ""
	maxVal := float64(math.MinInt)
	for a, val := range q.table[state] {
		if val > maxVal {
			maxAction = a
			maxVal = val
		}
	}

	if maxAction == "" {
		return "", def
	}

	return maxAction, maxVal
}

// MaxAmong returns the best action for the state among the given actions,
// breaking ties uniformly at random. Actions without an entry are
// initialized to the default value.
func (q *QTable) MaxAmong(state string, actions []string, def float64) (string, float64) {
	if _, ok := q.table[state]; !ok {
		q.table[state] = make(map[string]float64)
	}
	maxActions := make([]string, 0)
	maxVal := float64(math.MinInt)
	for _, a := range actions {
		if _, ok := q.table[state][a]; !ok {
			q.table[state][a] = def
		}
		val := q.table[state][a]
		if val > maxVal {
			maxActions = make([]string, 0)
			maxVal = val
		}
		if val == maxVal {
			maxActions = append(maxActions, a)
		}
	}
	if len(maxActions) == 0 {
		return "", def
	}

	randAction := q.rand.Intn(len(maxActions))
	return maxActions[randAction], maxVal
}

type qTableRow struct {
	State   string             `json:"state"`
	Entries map[string]float64 `json:"entries"`
}

// Load reads a table from the JSONL format written by Save.
func (q *QTable) Load(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error reading file: %s", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var row qTableRow
		if err := json.Unmarshal(scanner.Bytes(), &row); err != nil {
			return fmt.Errorf("error reading file contents: %s", err)
		}
		q.table[row.State] = row.Entries
	}
	return scanner.Err()
}

// Save writes the table as one JSON object per state.
func (q *QTable) Save(path string) error {
	bs := new(bytes.Buffer)

	for state, entries := range q.table {
		rowBS, err := json.Marshal(qTableRow{State: state, Entries: entries})
		if err != nil {
			continue
		}
		bs.Write(rowBS)
		bs.WriteByte('\n')
	}

	if bs.Len() == 0 {
		return nil
	}
	return os.WriteFile(path, bs.Bytes(), 0644)
}
