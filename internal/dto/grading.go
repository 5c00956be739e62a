package dto

// GradeLevelInput is one band of a grading system save payload.
type GradeLevelInput struct {
	MinScore float64 `json:"min_score" validate:"min=0,max=100"`
	MaxScore float64 `json:"max_score" validate:"min=0,max=100"`
	Grade    string  `json:"grade" validate:"required"`
	Remark   string  `json:"remark"`
}

// SaveGradingSystemRequest replaces a school's grading configuration.
type SaveGradingSystemRequest struct {
	Name     string            `json:"name" validate:"required"`
	PassMark float64           `json:"pass_mark" validate:"min=0,max=100"`
	Levels   []GradeLevelInput `json:"levels" validate:"required,min=1,dive"`
}
