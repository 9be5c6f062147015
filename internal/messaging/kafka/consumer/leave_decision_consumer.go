package consumer

import (
	"context"
	"encoding/json"

	"leaveflow/internal/events"
	"leaveflow/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveDecision notifies the submitter of every decision, and the
// next approver when the chain advances to their level.
func ConsumeLeaveDecision(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decision")
	log.Info("leave decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decision consumer stopped")
				return
			}
			log.Error("fetch leave decision message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecisionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = notificationService.Notify(
			ctx,
			event.CompanyID,
			event.EmployeeID,
			notification.TypeLeaveDecision,
			"Leave request update",
			event.Message,
			event.LeaveRequestID,
		)
		if err != nil {
			log.Error("create decision notification failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if event.EventType == events.EventTypeLeaveApproved && event.NextApproverID != "" {
			err = notificationService.Notify(
				ctx,
				event.CompanyID,
				event.NextApproverID,
				notification.TypeLeaveAwaitingApproval,
				"Leave request awaiting approval",
				"A leave request has advanced to your approval level",
				event.LeaveRequestID,
			)
			if err != nil {
				log.Error("create next approver notification failed",
					zap.String("leave_request_id", event.LeaveRequestID),
					zap.String("approver_id", event.NextApproverID),
					zap.Error(err),
				)
				continue
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decision message failed", zap.Error(err))
			continue
		}

		log.Info("decision notifications created",
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.String("event_type", event.EventType),
		)
	}
}
