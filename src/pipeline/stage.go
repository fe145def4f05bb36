package pipeline

// Stage is a step of a run. Stages advance strictly in declaration order;
// any of them can move to StageAborted.
type Stage int

const (
	StageStart Stage = iota
	StageContextRead
	StageHistoryFetched
	StageModelFetched
	StagePredicted
	StageReported
	StageDone
	StageAborted
)

var stageNames = map[Stage]string{
	StageStart:          "start",
	StageContextRead:    "context_read",
	StageHistoryFetched: "history_fetched",
	StageModelFetched:   "model_fetched",
	StagePredicted:      "predicted",
	StageReported:       "reported",
	StageDone:           "done",
	StageAborted:        "aborted",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}
