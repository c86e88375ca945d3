package service

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/repository"
	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newStore(t *testing.T) (*gorm.DB, *repository.Store) {
	t.Helper()

	db := testutil.NewTestDB(t)
	return db, repository.NewStore(db)
}
