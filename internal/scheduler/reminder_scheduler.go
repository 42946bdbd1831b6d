package scheduler

import (
	"github.com/FullFarming/v0-invoice-management-system/internal/app/service"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ReminderScheduler 승인 대기 인보이스 리마인더 스케줄러
type ReminderScheduler struct {
	cron            *cron.Cron
	approvalService service.ApprovalService
	spec            string
}

// NewReminderScheduler 리마인더 스케줄러 생성. spec은 cron 표현식 (예: "0 9 * * *").
func NewReminderScheduler(approvalService service.ApprovalService, spec string) *ReminderScheduler {
	return &ReminderScheduler{
		cron:            cron.New(),
		approvalService: approvalService,
		spec:            spec,
	}
}

// Start 스케줄러 시작
func (s *ReminderScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		logger.Info("Starting scheduled approval reminders", nil)

		sent, err := s.approvalService.SendReminders()
		if err != nil {
			logger.Error("Failed to send approval reminders from scheduler", err)
			return
		}

		logger.Info("Scheduled approval reminders finished", map[string]interface{}{
			"sent_count": sent,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for approval reminders", err)
		return err
	}

	s.cron.Start()
	logger.Info("Approval reminder scheduler started", map[string]interface{}{
		"spec": s.spec,
	})

	return nil
}

// Stop 스케줄러 중지
func (s *ReminderScheduler) Stop() {
	logger.Info("Stopping approval reminder scheduler...", nil)
	s.cron.Stop()
	logger.Info("Approval reminder scheduler stopped", nil)
}
