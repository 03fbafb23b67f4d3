package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetReviewQueueQueryHandler reads flagged orders straight from the orders
// table without loading aggregates.
type GetReviewQueueQueryHandler struct {
	db *gorm.DB
}

func NewGetReviewQueueQueryHandler(db *gorm.DB) GetReviewQueueQueryHandler {
	return GetReviewQueueQueryHandler{db: db}
}

// Handle returns the backlog size and up to Limit items. A zero limit only
// counts.
func (h GetReviewQueueQueryHandler) Handle(ctx context.Context, query GetReviewQueueQuery) (ReviewQueue, error) {
	if err := query.Validate(); err != nil {
		return ReviewQueue{}, err
	}

	queue := ReviewQueue{Items: make([]ReviewQueueItem, 0)}
	db := h.db.WithContext(ctx)

	if err := db.Raw(`
		SELECT COUNT(*)
		FROM orders
		WHERE review_flagged IS NOT NULL
	`).Scan(&queue.Total).Error; err != nil {
		return ReviewQueue{}, err
	}
	if query.Limit() == 0 || queue.Total == 0 {
		return queue, nil
	}

	rows, err := db.Raw(`
		SELECT
			id,
			custom_order_id,
			status,
			payment_status,
			review_reason,
			review_flagged
		FROM orders
		WHERE review_flagged IS NOT NULL
		ORDER BY review_flagged, id
		LIMIT ?
	`, query.Limit()).Rows()
	if err != nil {
		return ReviewQueue{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id            uuid.UUID
			customOrderID sql.NullString
			status        int
			paymentStatus int
			reason        sql.NullString
			flaggedAt     time.Time
		)
		if err = rows.Scan(&id, &customOrderID, &status, &paymentStatus, &reason, &flaggedAt); err != nil {
			return ReviewQueue{}, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return ReviewQueue{}, idErr
		}
		queue.Items = append(queue.Items, ReviewQueueItem{
			ID:            orderID,
			CustomOrderID: customOrderID.String,
			Status:        order.Status(status).String(),
			PaymentStatus: order.PaymentStatus(paymentStatus).String(),
			Reason:        reason.String,
			FlaggedAt:     flaggedAt.UTC(),
		})
	}

	if err = rows.Err(); err != nil {
		return ReviewQueue{}, err
	}

	return queue, nil
}
