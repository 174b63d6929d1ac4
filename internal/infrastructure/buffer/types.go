package buffer

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const EntityReport = "report"

// Item represents a report submission that must be replayed once primary
// storage comes back. Reports are the only buffered entity: notification
// and status writes are either retried inline or rebuilt by the
// reconciliation sweep.
type Item struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Entity    string          `json:"entity"`
	Data      json.RawMessage `json:"data"`
	Retries   int             `json:"retries"`
	Timestamp time.Time       `json:"timestamp"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Entity == "" {
		i.Entity = EntityReport
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
}
