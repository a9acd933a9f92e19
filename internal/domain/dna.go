package domain

import "time"

// DNAUpload records a raw DNA file stored encrypted in object storage.
type DNAUpload struct {
	ID         string    `json:"id" gorm:"primaryKey;size:26"`
	UserID     string    `json:"userId" gorm:"size:128;not null;index"`
	ObjectKey  string    `json:"objectKey" gorm:"not null"`
	FileName   string    `json:"fileName"`
	Size       int64     `json:"size"`
	SHA256     string    `json:"sha256" gorm:"column:sha256;size:64"`
	Encryption string    `json:"encryption" gorm:"size:32"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (DNAUpload) TableName() string { return "dna_uploads" }
