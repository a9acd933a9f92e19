package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shijra-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDNAUploadRepo_Put(t *testing.T) {
	db := newTestDB(t)
	repo := NewDNAUploadRepo(db, WithClock(func() time.Time { return t0 }))

	u := &domain.DNAUpload{
		ID: "01HZZZZZZZZZZZZZZZZZZZZZZZ", UserID: "u1", ObjectKey: "dna/u1/raw.txt",
		FileName: "raw.txt", Size: 42, SHA256: "abc", Encryption: "AES256",
	}
	require.NoError(t, repo.Put(context.Background(), u))
	assert.Equal(t, t0, u.CreatedAt)

	var got domain.DNAUpload
	require.NoError(t, db.First(&got, "id = ?", u.ID).Error)
	assert.Equal(t, "dna/u1/raw.txt", got.ObjectKey)
	assert.Equal(t, int64(42), got.Size)
	assert.Equal(t, "AES256", got.Encryption)
}
