package queries

import (
	"errors"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/guard"
)

const MaxReviewQueueLimit = 200

var ErrGetReviewQueueQueryIsNotConstructed = errors.New(
	"GetReviewQueueQuery must be created via NewGetReviewQueueQuery constructor",
)

// GetReviewQueueQuery lists orders flagged for manual review, oldest flag
// first.
type GetReviewQueueQuery struct {
	limit int

	guard guard.ConstructorGuard
}

func NewGetReviewQueueQuery(limit int) (GetReviewQueueQuery, error) {
	if limit < 0 || limit > MaxReviewQueueLimit {
		return GetReviewQueueQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, MaxReviewQueueLimit)
	}
	return GetReviewQueueQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetReviewQueueQuery) Validate() error {
	return q.guard.Validate(ErrGetReviewQueueQueryIsNotConstructed)
}

func (q GetReviewQueueQuery) Limit() int {
	return q.limit
}

// ReviewQueue holds the first Limit flagged orders and the total backlog.
type ReviewQueue struct {
	Total int64
	Items []ReviewQueueItem
}

type ReviewQueueItem struct {
	ID            kernel.UUID
	CustomOrderID string
	Status        string
	PaymentStatus string
	Reason        string
	FlaggedAt     time.Time
}
