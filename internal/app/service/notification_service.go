package service

import (
	"context"
	"fmt"

	"github.com/FullFarming/v0-invoice-management-system/internal/app/model"
	"github.com/FullFarming/v0-invoice-management-system/internal/websocket"
	"github.com/FullFarming/v0-invoice-management-system/pkg/logger"
	"github.com/FullFarming/v0-invoice-management-system/pkg/redis"
)

// 인보이스 이벤트 유형
const (
	EventInvoiceSubmitted     = "invoice_submitted"
	EventInvoiceApproved      = "invoice_approved"
	EventInvoiceRejected      = "invoice_rejected"
	EventInvoiceFullyApproved = "invoice_fully_approved"
	EventApprovalReminder     = "approval_reminder"
)

// NotificationService 인보이스 이벤트 알림 서비스 인터페이스
type NotificationService interface {
	NotifySubmitted(invoice *model.Invoice, approverEmail string)
	NotifyApproved(invoice *model.Invoice, actorEmail, nextApproverEmail string)
	NotifyRejected(invoice *model.Invoice, actorEmail, comment string)
	NotifyFullyApproved(invoice *model.Invoice)
	NotifyReminder(invoice *model.Invoice, approverEmail string)
}

type notificationService struct {
	hub *websocket.Hub
}

// NewNotificationService 알림 서비스 생성자. hub는 nil일 수 있다 (CLI 등).
func NewNotificationService(hub *websocket.Hub) NotificationService {
	return &notificationService{hub: hub}
}

// NotifySubmitted 제출된 인보이스의 첫 승인자에게 알림
func (s *notificationService) NotifySubmitted(invoice *model.Invoice, approverEmail string) {
	s.dispatch(redis.InvoiceEvent{
		Type:          EventInvoiceSubmitted,
		InvoiceNumber: invoice.InvoiceNumber,
		ProjectName:   invoice.ProjectName,
		ActorEmail:    invoice.CreatedBy,
		TargetEmail:   approverEmail,
		Message:       fmt.Sprintf("%s 인보이스가 제출되었습니다. 승인이 필요합니다.", invoice.InvoiceNumber),
	})
}

// NotifyApproved 한 단계 승인 후 다음 승인자에게 알림
func (s *notificationService) NotifyApproved(invoice *model.Invoice, actorEmail, nextApproverEmail string) {
	s.dispatch(redis.InvoiceEvent{
		Type:          EventInvoiceApproved,
		InvoiceNumber: invoice.InvoiceNumber,
		ProjectName:   invoice.ProjectName,
		ActorEmail:    actorEmail,
		TargetEmail:   nextApproverEmail,
		Message:       fmt.Sprintf("%s 인보이스가 승인 대기 중입니다.", invoice.InvoiceNumber),
	})
}

// NotifyRejected 반려 시 작성자에게 알림
func (s *notificationService) NotifyRejected(invoice *model.Invoice, actorEmail, comment string) {
	s.dispatch(redis.InvoiceEvent{
		Type:          EventInvoiceRejected,
		InvoiceNumber: invoice.InvoiceNumber,
		ProjectName:   invoice.ProjectName,
		ActorEmail:    actorEmail,
		TargetEmail:   invoice.CreatedBy,
		Message:       fmt.Sprintf("%s 인보이스가 반려되었습니다: %s", invoice.InvoiceNumber, comment),
	})
}

// NotifyFullyApproved 전체 승인 완료 시 작성자에게 알림
func (s *notificationService) NotifyFullyApproved(invoice *model.Invoice) {
	s.dispatch(redis.InvoiceEvent{
		Type:          EventInvoiceFullyApproved,
		InvoiceNumber: invoice.InvoiceNumber,
		ProjectName:   invoice.ProjectName,
		TargetEmail:   invoice.CreatedBy,
		Message:       fmt.Sprintf("%s 인보이스 승인이 완료되었습니다.", invoice.InvoiceNumber),
	})
}

// NotifyReminder 승인 대기 중인 인보이스의 현재 승인자에게 리마인더
func (s *notificationService) NotifyReminder(invoice *model.Invoice, approverEmail string) {
	s.dispatch(redis.InvoiceEvent{
		Type:          EventApprovalReminder,
		InvoiceNumber: invoice.InvoiceNumber,
		ProjectName:   invoice.ProjectName,
		TargetEmail:   approverEmail,
		Message:       fmt.Sprintf("%s 인보이스가 승인을 기다리고 있습니다.", invoice.InvoiceNumber),
	})
}

// dispatch WebSocket 실시간 푸시 + Redis 이벤트 발행.
// 알림 실패는 주요 로직에 영향을 주지 않는다.
func (s *notificationService) dispatch(event redis.InvoiceEvent) {
	if s.hub != nil && event.TargetEmail != "" {
		wsMessage := map[string]interface{}{
			"type":           event.Type,
			"invoice_number": event.InvoiceNumber,
			"project_name":   event.ProjectName,
			"message":        event.Message,
		}
		if err := s.hub.SendToUser(event.TargetEmail, wsMessage); err != nil {
			logger.Warn("Failed to push WebSocket notification", map[string]interface{}{
				"type":         event.Type,
				"target_email": event.TargetEmail,
				"error":        err.Error(),
			})
		}
	}

	if err := redis.PublishInvoiceEvent(context.Background(), event); err != nil {
		logger.Warn("Failed to publish invoice event to Redis", map[string]interface{}{
			"type":           event.Type,
			"invoice_number": event.InvoiceNumber,
			"error":          err.Error(),
		})
	}

	logger.Debug("Invoice event dispatched", map[string]interface{}{
		"type":           event.Type,
		"invoice_number": event.InvoiceNumber,
		"target_email":   event.TargetEmail,
	})
}
