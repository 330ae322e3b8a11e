package entity

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type RunListResponse struct {
	Runs  []RunSummary `json:"runs"`
	Total int          `json:"total"`
}

type ListRunsQuery struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}
