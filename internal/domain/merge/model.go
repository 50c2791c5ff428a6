package merge

type Input struct {
	SourceHouseholdID int64 `json:"source_household_id"`
	TargetHouseholdID int64 `json:"target_household_id"`
}

type Result struct {
	PeopleMoved  int64 `json:"people_moved"`
	GiftsUpdated int64 `json:"gifts_updated"`
	CardsUpdated int64 `json:"cards_updated"`
}

type Status string

const (
	StatusMerged   Status = "merged"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

type Metrics interface {
	ObserveMerge(status Status)
}

type noopMetrics struct{}

func (noopMetrics) ObserveMerge(Status) {}
