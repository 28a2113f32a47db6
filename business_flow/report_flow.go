package businessflow

import (
	"context"
	"strconv"
	"time"

	"github.com/sepehrdad/Hydra-Marketing/app/dto"
	"github.com/sepehrdad/Hydra-Marketing/models"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/xuri/excelize/v2"
)

// ReportFlow aggregates the customer's marketing activity and exports it
type ReportFlow interface {
	Get(ctx context.Context, request *dto.GetReportRequest) (*dto.GetReportResponse, error)
	Export(ctx context.Context, request *dto.ExportReportRequest) (filename string, content []byte, err error)
}

// ReportFlowImpl implements the report business flow
type ReportFlowImpl struct {
	whatsappRepo repository.WhatsAppCampaignRepository
	emailRepo    repository.EmailCampaignRepository
	postRepo     repository.SocialPostRepository
	adRepo       repository.AdRepository
}

// NewReportFlow creates a new report flow instance
func NewReportFlow(
	whatsappRepo repository.WhatsAppCampaignRepository,
	emailRepo repository.EmailCampaignRepository,
	postRepo repository.SocialPostRepository,
	adRepo repository.AdRepository,
) ReportFlow {
	return &ReportFlowImpl{
		whatsappRepo: whatsappRepo,
		emailRepo:    emailRepo,
		postRepo:     postRepo,
		adRepo:       adRepo,
	}
}

// Get returns the account-wide activity report
func (rf *ReportFlowImpl) Get(ctx context.Context, request *dto.GetReportRequest) (*dto.GetReportResponse, error) {
	resp := &dto.GetReportResponse{}

	whatsapp, err := rf.whatsappRepo.ByFilter(ctx, models.WhatsAppCampaignFilter{CustomerID: &request.CustomerID}, "", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Report aggregation failed", err)
	}
	for _, campaign := range whatsapp {
		resp.WhatsApp.Total++
		switch campaign.Status {
		case models.WhatsAppCampaignStatusSent:
			resp.WhatsApp.Sent++
		case models.WhatsAppCampaignStatusScheduled:
			resp.WhatsApp.Scheduled++
		case models.WhatsAppCampaignStatusDraft:
			resp.WhatsApp.Draft++
		}
		resp.WhatsApp.Delivered += int64(campaign.DeliveredCount)
		resp.WhatsApp.Failed += int64(campaign.FailedCount)
	}

	email, err := rf.emailRepo.ByFilter(ctx, models.EmailCampaignFilter{CustomerID: &request.CustomerID}, "", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Report aggregation failed", err)
	}
	for _, campaign := range email {
		resp.Email.Total++
		switch campaign.Status {
		case models.EmailCampaignStatusSent:
			resp.Email.Sent++
		case models.EmailCampaignStatusScheduled:
			resp.Email.Scheduled++
		case models.EmailCampaignStatusDraft:
			resp.Email.Draft++
		}
		resp.Email.Delivered += int64(campaign.DeliveredCount)
		resp.Email.Failed += int64(campaign.FailedCount)
	}

	posts, err := rf.postRepo.ByFilter(ctx, models.SocialPostFilter{CustomerID: &request.CustomerID}, "", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Report aggregation failed", err)
	}
	postBuckets := make(map[models.Platform]*dto.PublishReportDTO)
	for _, post := range posts {
		bucket := postBuckets[post.Platform]
		if bucket == nil {
			bucket = &dto.PublishReportDTO{Platform: string(post.Platform)}
			postBuckets[post.Platform] = bucket
		}
		bucket.Total++
		switch post.Status {
		case models.SocialPostStatusPublished:
			bucket.Published++
		case models.SocialPostStatusFailed:
			bucket.Failed++
		}
	}

	ads, err := rf.adRepo.ByFilter(ctx, models.AdFilter{CustomerID: &request.CustomerID}, "", 0, 0)
	if err != nil {
		return nil, NewBusinessError("REPORT_FAILED", "Report aggregation failed", err)
	}
	adBuckets := make(map[models.Platform]*dto.PublishReportDTO)
	for _, ad := range ads {
		bucket := adBuckets[ad.Platform]
		if bucket == nil {
			bucket = &dto.PublishReportDTO{Platform: string(ad.Platform)}
			adBuckets[ad.Platform] = bucket
		}
		bucket.Total++
		switch ad.Status {
		case models.AdStatusPublished:
			bucket.Published++
		case models.AdStatusFailed:
			bucket.Failed++
		}
	}

	// Stable platform order in the response
	for _, platform := range models.AllPlatforms() {
		if bucket, ok := postBuckets[platform]; ok {
			resp.Posts = append(resp.Posts, *bucket)
		}
		if bucket, ok := adBuckets[platform]; ok {
			resp.Ads = append(resp.Ads, *bucket)
		}
	}

	return resp, nil
}

// Export renders the full activity listing as an Excel workbook with one
// sheet per channel
func (rf *ReportFlowImpl) Export(ctx context.Context, request *dto.ExportReportRequest) (string, []byte, error) {
	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	whatsapp, err := rf.whatsappRepo.ByFilter(ctx, models.WhatsAppCampaignFilter{CustomerID: &request.CustomerID}, "created_at DESC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_EXPORT_FAILED", "Report export failed", err)
	}

	sheet := "WhatsApp Campaigns"
	xl.SetSheetName(xl.GetSheetName(0), sheet)
	header := []string{"uuid", "name", "status", "schedule_type", "total_recipients", "delivered", "failed", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)
	for ri, campaign := range whatsapp {
		record := []string{
			campaign.UUID.String(),
			campaign.Name,
			campaign.Status.String(),
			string(campaign.ScheduleType),
			strconv.Itoa(campaign.TotalRecipients),
			strconv.Itoa(campaign.DeliveredCount),
			strconv.Itoa(campaign.FailedCount),
			campaign.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	email, err := rf.emailRepo.ByFilter(ctx, models.EmailCampaignFilter{CustomerID: &request.CustomerID}, "created_at DESC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_EXPORT_FAILED", "Report export failed", err)
	}

	sheet = "Email Campaigns"
	_, _ = xl.NewSheet(sheet)
	header = []string{"uuid", "name", "subject", "status", "schedule_type", "total_recipients", "delivered", "failed", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)
	for ri, campaign := range email {
		record := []string{
			campaign.UUID.String(),
			campaign.Name,
			campaign.Subject,
			campaign.Status.String(),
			string(campaign.ScheduleType),
			strconv.Itoa(campaign.TotalRecipients),
			strconv.Itoa(campaign.DeliveredCount),
			strconv.Itoa(campaign.FailedCount),
			campaign.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	posts, err := rf.postRepo.ByFilter(ctx, models.SocialPostFilter{CustomerID: &request.CustomerID}, "created_at DESC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_EXPORT_FAILED", "Report export failed", err)
	}

	sheet = "Posts"
	_, _ = xl.NewSheet(sheet)
	header = []string{"uuid", "platform", "status", "external_post_id", "error", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)
	for ri, post := range posts {
		externalID := ""
		if post.ExternalPostID != nil {
			externalID = *post.ExternalPostID
		}
		errMsg := ""
		if post.ErrorMessage != nil {
			errMsg = *post.ErrorMessage
		}
		record := []string{
			post.UUID.String(),
			string(post.Platform),
			post.Status.String(),
			externalID,
			errMsg,
			post.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	ads, err := rf.adRepo.ByFilter(ctx, models.AdFilter{CustomerID: &request.CustomerID}, "created_at DESC", 0, 0)
	if err != nil {
		return "", nil, NewBusinessError("REPORT_EXPORT_FAILED", "Report export failed", err)
	}

	sheet = "Ads"
	_, _ = xl.NewSheet(sheet)
	header = []string{"uuid", "platform", "name", "status", "daily_budget", "external_ad_id", "error", "created_at"}
	_ = xl.SetSheetRow(sheet, "A1", &header)
	for ri, ad := range ads {
		externalID := ""
		if ad.ExternalAdID != nil {
			externalID = *ad.ExternalAdID
		}
		errMsg := ""
		if ad.ErrorMessage != nil {
			errMsg = *ad.ErrorMessage
		}
		record := []string{
			ad.UUID.String(),
			string(ad.Platform),
			ad.Name,
			ad.Status.String(),
			strconv.FormatUint(ad.DailyBudget, 10),
			externalID,
			errMsg,
			ad.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, ri+2)
		_ = xl.SetSheetRow(sheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("REPORT_EXPORT_FAILED", "Failed to write Excel file", err)
	}

	return "marketing_report.xlsx", buf.Bytes(), nil
}
