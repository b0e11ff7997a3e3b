package request

type CreateChatbotRequest struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	CompanyName       string `json:"company_name"`
	Provider          string `json:"provider"`
	Model             string `json:"model"`
	EndpointURL       string `json:"endpoint_url"`
	MonitoringEnabled *bool  `json:"monitoring_enabled"`
	RiskThreshold     *int   `json:"risk_threshold"`
	AlertOnRisk       *bool  `json:"alert_on_risk"`
}

type UpdateChatbotRequest struct {
	Name              *string `json:"name"`
	Description       *string `json:"description"`
	CompanyName       *string `json:"company_name"`
	Provider          *string `json:"provider"`
	Model             *string `json:"model"`
	EndpointURL       *string `json:"endpoint_url"`
	Status            *string `json:"status"`
	MonitoringEnabled *bool   `json:"monitoring_enabled"`
	RiskThreshold     *int    `json:"risk_threshold"`
	AlertOnRisk       *bool   `json:"alert_on_risk"`
}
