package model

// StageSequence is the fixed ordered lifecycle of a plant in a grow unit.
// The timeline view depends on CurrentStage being a member of this sequence;
// anything else degrades to a placeholder.
var StageSequence = []string{
	"Germination",
	"Seedling",
	"Vegetative",
	"Flowering",
	"Fruiting",
	"Harvest",
}

// StageIndex returns the position of stage in StageSequence, or -1 if the
// stage is unknown.
func StageIndex(stage string) int {
	for i, s := range StageSequence {
		if s == stage {
			return i
		}
	}
	return -1
}

// GrowthProgress is the unit's position in the plant lifecycle.
// EstimatedDaysToNextStage < 0 means unknown.
type GrowthProgress struct {
	CurrentStage             string `json:"current_stage"`
	DaysInStage              int    `json:"days_in_stage"`
	NextStage                string `json:"next_stage,omitempty"`
	ReadyForNextStage        bool   `json:"ready_for_next_stage"`
	EstimatedDaysToNextStage int    `json:"estimated_days_to_next_stage"`
}
