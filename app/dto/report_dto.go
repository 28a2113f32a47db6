package dto

// GetReportRequest represents the request for the account-wide activity report
type GetReportRequest struct {
	CustomerID uint `json:"-"`
}

// CampaignReportDTO aggregates one campaign channel
type CampaignReportDTO struct {
	Total     int64 `json:"total"`
	Sent      int64 `json:"sent"`
	Scheduled int64 `json:"scheduled"`
	Draft     int64 `json:"draft"`
	Delivered int64 `json:"delivered"`
	Failed    int64 `json:"failed"`
}

// PublishReportDTO aggregates posts or ads per platform
type PublishReportDTO struct {
	Platform  string `json:"platform"`
	Total     int64  `json:"total"`
	Published int64  `json:"published"`
	Failed    int64  `json:"failed"`
}

// GetReportResponse represents the account-wide activity report
type GetReportResponse struct {
	WhatsApp CampaignReportDTO  `json:"whatsapp"`
	Email    CampaignReportDTO  `json:"email"`
	Posts    []PublishReportDTO `json:"posts"`
	Ads      []PublishReportDTO `json:"ads"`
}

// ExportReportRequest represents the request to export the report as a spreadsheet
type ExportReportRequest struct {
	CustomerID uint `json:"-"`
}
