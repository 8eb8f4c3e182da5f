package attachment

import (
	"time"

	"github.com/google/uuid"
)

const (
	MaxFiles      = 5
	MaxTotalBytes = 50 << 20
)

type Attachment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	LeaveID     uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_attachments_leave"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	StoredKey   string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_leave_attachments_stored_key"`
	ContentType string    `gorm:"type:varchar(127)"`
	Size        int64     `gorm:"not null"`
	UploadedAt  time.Time `gorm:"not null;autoCreateTime"`
}

func (Attachment) TableName() string {
	return "leave_attachments"
}

// Upload is a file received from a client, fully buffered.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (u Upload) Size() int64 {
	return int64(len(u.Data))
}

type ReconcileResult struct {
	Added   []Attachment
	Removed []string

	stash []stashedBlob
}

// stashedBlob holds the bytes of a removed attachment until the surrounding transaction settles.
type stashedBlob struct {
	storedKey   string
	contentType string
	data        []byte
}

// AddedKeys lists stored keys written by the reconcile, used to discard them when the caller rolls back.
func (r ReconcileResult) AddedKeys() []string {
	keys := make([]string, len(r.Added))
	for i, a := range r.Added {
		keys[i] = a.StoredKey
	}
	return keys
}
