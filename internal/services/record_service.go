package services

import (
	"context"
	"fmt"
	"log/slog"

	"fuelog/internal/amqp"
	"fuelog/internal/core"
	"fuelog/internal/storage"
)

// RecordService orchestrates gas record operations across SQLite and AMQP
type RecordService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewRecordService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *RecordService {
	return &RecordService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateRecord saves a fill-up locally and publishes a sync message
func (s *RecordService) CreateRecord(ctx context.Context, rec core.GasRecord) (int64, error) {
	if err := rec.Validate(); err != nil {
		return 0, fmt.Errorf("validate gas record: %w", err)
	}

	// Save to SQLite first (fast, reliable)
	id, err := s.storage.CreateRecord(ctx, rec)
	if err != nil {
		return 0, fmt.Errorf("save gas record: %w", err)
	}

	// Publish async sync message (non-blocking, version 1 for new record)
	if err := s.publishSyncMessage(ctx, id, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"record_id", id, "error", err)
		// Don't fail the request - record is saved locally
	}

	return id, nil
}

// DeleteRecord soft deletes a fill-up locally and publishes a delete message
func (s *RecordService) DeleteRecord(ctx context.Context, id int64) error {
	// Soft delete from SQLite first
	if err := s.storage.DeleteRecord(ctx, id); err != nil {
		return fmt.Errorf("soft delete gas record: %w", err)
	}

	// Publish async delete message (non-blocking)
	if err := s.publishDeleteMessage(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"record_id", id, "error", err)
		// Don't fail the request - record is deleted locally
	}

	return nil
}

// SetCalculationHidden toggles whether the record's fuel economy counts
// toward monthly statistics, then republishes it for export.
func (s *RecordService) SetCalculationHidden(ctx context.Context, id int64, hidden bool) error {
	if err := s.storage.SetCalculationHidden(ctx, id, hidden); err != nil {
		return fmt.Errorf("set calculation hidden: %w", err)
	}

	rec, err := s.storage.GetRecord(ctx, id)
	if err != nil {
		return fmt.Errorf("reload gas record: %w", err)
	}

	if err := s.publishSyncMessage(ctx, id, rec.Version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"record_id", id, "error", err)
	}

	return nil
}

// MonthRecords lists the month's fill-ups with derived fuel economy.
func (s *RecordService) MonthRecords(ctx context.Context, year, month int) ([]core.GasRecord, error) {
	return s.storage.ListMonth(ctx, year, month)
}

// MonthSummary returns the month's distance, cost, and fuel totals.
func (s *RecordService) MonthSummary(ctx context.Context, year, month int) (core.TripSummary, error) {
	return s.storage.MonthSummary(ctx, year, month)
}

func (s *RecordService) publishSyncMessage(ctx context.Context, id, version int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return nil
	}

	return s.amqpClient.PublishRecordSync(ctx, id, version)
}

func (s *RecordService) publishDeleteMessage(ctx context.Context, id int64) error {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping delete message")
		return nil
	}

	return s.amqpClient.PublishRecordDelete(ctx, id)
}

// Close closes both storage and AMQP connections
func (s *RecordService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close record service: %v", errs)
	}

	return nil
}
