// Package scheduler runs the background loop that dispatches scheduled
// campaigns and posts once their schedule time arrives.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	businessflow "github.com/sepehrdad/Hydra-Marketing/business_flow"
	"github.com/sepehrdad/Hydra-Marketing/config"
	"github.com/sepehrdad/Hydra-Marketing/repository"
	"github.com/sepehrdad/Hydra-Marketing/utils"
)

// CampaignScheduler periodically picks up scheduled campaigns and posts
// whose schedule time has passed and triggers their delivery.
type CampaignScheduler struct {
	whatsappRepo repository.WhatsAppCampaignRepository
	emailRepo    repository.EmailCampaignRepository
	postRepo     repository.SocialPostRepository

	whatsappFlow businessflow.WhatsAppCampaignFlow
	emailFlow    businessflow.EmailCampaignFlow
	postFlow     businessflow.SocialPostFlow

	logger    *log.Logger
	interval  time.Duration
	batchSize int

	logFile *os.File
}

// NewCampaignScheduler creates a new scheduler
func NewCampaignScheduler(
	whatsappRepo repository.WhatsAppCampaignRepository,
	emailRepo repository.EmailCampaignRepository,
	postRepo repository.SocialPostRepository,
	whatsappFlow businessflow.WhatsAppCampaignFlow,
	emailFlow businessflow.EmailCampaignFlow,
	postFlow businessflow.SocialPostFlow,
	cfg config.SchedulerConfig,
) *CampaignScheduler {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = time.Minute
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}

	s := &CampaignScheduler{
		whatsappRepo: whatsappRepo,
		emailRepo:    emailRepo,
		postRepo:     postRepo,
		whatsappFlow: whatsappFlow,
		emailFlow:    emailFlow,
		postFlow:     postFlow,
		interval:     interval,
		batchSize:    batchSize,
	}

	if err := s.initSchedulerLogger(); err != nil {
		s.logger = log.Default()
		s.logger.Printf("scheduler: failed to initialize file logger: %v", err)
	}

	return s
}

// initSchedulerLogger configures a logger that writes to both stdout and a persistent file under data/ (or /data)
func (s *CampaignScheduler) initSchedulerLogger() error {
	candidates := []string{
		filepath.Join("data"),
		"/data",
	}
	for _, dir := range candidates {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			continue
		}
		logPath := filepath.Join(dir, "scheduler.log")
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			continue
		}
		s.logFile = f
		mw := io.MultiWriter(os.Stdout, f)
		s.logger = log.New(mw, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return nil
	}
	return fmt.Errorf("could not create scheduler log file in any candidate directory")
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *CampaignScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				if s.logFile != nil {
					s.logFile.Close()
				}
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()

	return cancel
}

func (s *CampaignScheduler) runOnce(ctx context.Context) {
	s.dispatchWhatsAppCampaigns(ctx)
	s.dispatchEmailCampaigns(ctx)
	s.publishPosts(ctx)
}

func (s *CampaignScheduler) dispatchWhatsAppCampaigns(ctx context.Context) {
	due, err := s.whatsappRepo.ListDue(ctx, utils.UTCNow(), s.batchSize)
	if err != nil {
		s.logger.Printf("scheduler: list due whatsapp campaigns failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}
	s.logger.Printf("scheduler: %d whatsapp campaigns due", len(due))

	for _, campaign := range due {
		dispatchCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)

		summary, err := s.whatsappFlow.Dispatch(dispatchCtx, campaign, schedulerMetadata())
		cancel()
		if err != nil {
			s.logger.Printf("scheduler: dispatch whatsapp campaign uuid=%s failed: %v", campaign.UUID, err)
			continue
		}
		s.logger.Printf("scheduler: dispatched whatsapp campaign uuid=%s total=%d successful=%d failed=%d",
			campaign.UUID, summary.Total, summary.Successful, summary.Failed)
	}
}

func (s *CampaignScheduler) dispatchEmailCampaigns(ctx context.Context) {
	due, err := s.emailRepo.ListDue(ctx, utils.UTCNow(), s.batchSize)
	if err != nil {
		s.logger.Printf("scheduler: list due email campaigns failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}
	s.logger.Printf("scheduler: %d email campaigns due", len(due))

	for _, campaign := range due {
		dispatchCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)

		summary, err := s.emailFlow.Dispatch(dispatchCtx, campaign, schedulerMetadata())
		cancel()
		if err != nil {
			s.logger.Printf("scheduler: dispatch email campaign uuid=%s failed: %v", campaign.UUID, err)
			continue
		}
		s.logger.Printf("scheduler: dispatched email campaign uuid=%s total=%d successful=%d failed=%d",
			campaign.UUID, summary.Total, summary.Successful, summary.Failed)
	}
}

func (s *CampaignScheduler) publishPosts(ctx context.Context) {
	due, err := s.postRepo.ListDue(ctx, utils.UTCNow(), s.batchSize)
	if err != nil {
		s.logger.Printf("scheduler: list due posts failed: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}
	s.logger.Printf("scheduler: %d posts due", len(due))

	for _, post := range due {
		publishCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)

		err := s.postFlow.Publish(publishCtx, post, schedulerMetadata())
		cancel()
		if err != nil {
			s.logger.Printf("scheduler: publish post uuid=%s platform=%s failed: %v", post.UUID, post.Platform, err)
			continue
		}
		s.logger.Printf("scheduler: published post uuid=%s platform=%s status=%s", post.UUID, post.Platform, post.Status)
	}
}

func schedulerMetadata() *businessflow.ClientMetadata {
	return businessflow.NewClientMetadata("127.0.0.1", "campaign-scheduler")
}
