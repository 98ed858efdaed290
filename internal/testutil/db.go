package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	dbpkg "github.com/BruksfildServices01/services-booking/internal/db"
	"github.com/BruksfildServices01/services-booking/internal/models"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,

		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbpkg.Migrate(db))

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// SeedService stores a service open on the given weekdays between open
// and closing with the given slot duration.
func SeedService(t *testing.T, db *gorm.DB, title string, slot int, price *float64, open, closing string, weekdays ...string) *models.Service {
	t.Helper()

	svc := &models.Service{
		Title:        title,
		Description:  "seeded service for tests",
		SlotDuration: slot,
		Status:       models.StatusActive,
		Price:        price,
	}
	for _, wd := range weekdays {
		svc.Days = append(svc.Days, models.ServiceDay{
			Name:          wd,
			OpeningTiming: open,
			CloseTiming:   closing,
			Status:        models.StatusActive,
		})
	}
	require.NoError(t, db.Create(svc).Error)
	return svc
}

func Float(v float64) *float64 {
	return &v
}
