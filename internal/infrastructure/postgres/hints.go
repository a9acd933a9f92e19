package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shijra-api/internal/domain"
	"github.com/shijra-api/internal/pkg/id"
	"gorm.io/gorm"
)

// HintRepo reads record-matching candidates from the hints table.
type HintRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHintRepo(db *gorm.DB, opts ...Option) *HintRepo {
	o := buildOptions(opts)
	return &HintRepo{db: db, now: o.now}
}

// Put stores a new candidate. Matching jobs feed this table; the API only reads it.
func (r *HintRepo) Put(ctx context.Context, h *domain.Hint) error {
	createdAt := stamp(r.now)
	if h.ID == "" {
		h.ID = id.NewAt(createdAt)
	}
	h.CreatedAt = createdAt
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("insert hint: %w", err)
	}
	return nil
}

// ListForIndividual returns the strongest candidates for one individual of a tree.
func (r *HintRepo) ListForIndividual(ctx context.Context, treeID, individualID string, limit int) ([]domain.Hint, error) {
	hints := make([]domain.Hint, 0)
	err := r.db.WithContext(ctx).
		Where("tree_id = ? AND individual_id = ?", treeID, individualID).
		Order("confidence_level DESC").
		Order("id ASC").
		Limit(limit).
		Find(&hints).Error
	if err != nil {
		return nil, fmt.Errorf("list hints: %w", err)
	}
	return hints, nil
}
