package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shijra-api/internal/domain"
	"gorm.io/gorm"
)

// DNAUploadRepo records metadata for encrypted DNA objects.
type DNAUploadRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDNAUploadRepo(db *gorm.DB, opts ...Option) *DNAUploadRepo {
	o := buildOptions(opts)
	return &DNAUploadRepo{db: db, now: o.now}
}

func (r *DNAUploadRepo) Put(ctx context.Context, u *domain.DNAUpload) error {
	u.CreatedAt = stamp(r.now)
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("insert dna upload: %w", err)
	}
	return nil
}
