package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"leaveflow/internal/events"
	"leaveflow/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveSubmitted turns leave_submitted events into an in-app
// notification for the first approver in the chain.
func ConsumeLeaveSubmitted(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_submitted")
	log.Info("leave submitted consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave submitted consumer stopped")
				return
			}
			log.Error("fetch leave submitted message failed", zap.Error(err))
			continue
		}

		var event events.LeaveSubmittedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_submitted event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		message := fmt.Sprintf("A %s leave request for %s day(s) is waiting for your approval", event.LeaveType, event.DaysCount)
		err = notificationService.Notify(
			ctx,
			event.CompanyID,
			event.NextApproverID,
			notification.TypeLeaveAwaitingApproval,
			"Leave request awaiting approval",
			message,
			event.LeaveRequestID,
		)
		if err != nil {
			log.Error("create approval notification failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.String("approver_id", event.NextApproverID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave submitted message failed", zap.Error(err))
			continue
		}

		log.Info("approval notification created from leave_submitted event",
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.String("approver_id", event.NextApproverID),
		)
	}
}
