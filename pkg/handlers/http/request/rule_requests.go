package request

type CreateRuleRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Kind        string                 `json:"kind"`
	Category    string                 `json:"category"`
	Severity    string                 `json:"severity"`
	Weight      *int                   `json:"weight"`
	Enabled     *bool                  `json:"enabled"`
	Params      map[string]interface{} `json:"params"`
}

type UpdateRuleRequest struct {
	Name        *string                `json:"name"`
	Description *string                `json:"description"`
	Kind        *string                `json:"kind"`
	Category    *string                `json:"category"`
	Severity    *string                `json:"severity"`
	Weight      *int                   `json:"weight"`
	Enabled     *bool                  `json:"enabled"`
	Params      map[string]interface{} `json:"params"`
}
