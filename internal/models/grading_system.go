package models

import (
	"time"

	"github.com/scholaris/scholaris-api/internal/grading"
)

// GradingSystem is a school's configured grade scale. A school without one
// falls back to grading.DefaultScale() at computation time.
type GradingSystem struct {
	ID        string       `db:"id" json:"id"`
	SchoolID  string       `db:"school_id" json:"school_id"`
	Name      string       `db:"name" json:"name"`
	PassMark  float64      `db:"pass_mark" json:"pass_mark"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
	Levels    []GradeLevel `json:"levels,omitempty"`
}

// GradeLevel is one band of a grading system.
type GradeLevel struct {
	ID       string  `db:"id" json:"id"`
	SystemID string  `db:"system_id" json:"system_id"`
	MinScore float64 `db:"min_score" json:"min_score"`
	MaxScore float64 `db:"max_score" json:"max_score"`
	Grade    string  `db:"grade" json:"grade"`
	Remark   string  `db:"remark" json:"remark"`
}

// ToScale converts the persisted configuration into the engine's value type.
func (g GradingSystem) ToScale() grading.Scale {
	scale := grading.Scale{PassMark: g.PassMark, Bands: make([]grading.Band, 0, len(g.Levels))}
	for _, level := range g.Levels {
		scale.Bands = append(scale.Bands, grading.Band{
			Min:    level.MinScore,
			Max:    level.MaxScore,
			Grade:  level.Grade,
			Remark: level.Remark,
		})
	}
	return scale
}
