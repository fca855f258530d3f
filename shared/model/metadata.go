package model

import "time"

// Metadata is embedded by every persisted document.
type Metadata struct {
	CreatedAt  time.Time `db:"created_at"`
	ModifiedAt time.Time `db:"modified_at"`
}

// Touch stamps the modification time, and the creation time when unset.
func (m *Metadata) Touch(now time.Time) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}

	m.ModifiedAt = now
}
