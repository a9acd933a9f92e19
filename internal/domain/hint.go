package domain

import (
	"time"

	"gorm.io/datatypes"
)

// HintListLimit caps how many match candidates a hint query returns.
const HintListLimit = 20

// Hint is a record-matching suggestion for an individual in a tree.
type Hint struct {
	ID              string                      `json:"id" gorm:"primaryKey;size:26"`
	TreeID          string                      `json:"treeId" gorm:"size:128;not null;index:idx_hints_tree_individual,priority:1"`
	IndividualID    string                      `json:"individualId" gorm:"size:128;not null;index:idx_hints_tree_individual,priority:2"`
	SuggestedName   string                      `json:"suggestedName" gorm:"not null"`
	SourceTreeName  string                      `json:"sourceTreeName"`
	ConfidenceLevel int                         `json:"confidenceLevel" gorm:"not null"`
	MatchedOn       datatypes.JSONSlice[string] `json:"matchedOn"`
	Img             string                      `json:"img"`
	CreatedAt       time.Time                   `json:"createdAt"`
}

func (Hint) TableName() string { return "hints" }
