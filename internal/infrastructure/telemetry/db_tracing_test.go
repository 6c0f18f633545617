package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   int64
	Name string
}

func TestRegisterDBTracing(t *testing.T) {
	t.Run("disabled leaves callbacks alone", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
		require.NoError(t, err)

		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: false}, zap.NewNop()))
		assert.Nil(t, db.Callback().Query().Get("slow_query:after_query"))
	})

	t.Run("enabled records spans for statements", func(t *testing.T) {
		recorder := useSpanRecorder(t)
		db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: logger.Discard})
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		sqlDB.SetMaxOpenConns(1)
		require.NoError(t, db.AutoMigrate(&tracedRow{}))

		require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: true, DBName: "retail"}, zap.NewNop()))
		assert.NotNil(t, db.Callback().Query().Get("slow_query:after_query"))

		require.NoError(t, db.Create(&tracedRow{Name: "a"}).Error)
		var rows []tracedRow
		require.NoError(t, db.Find(&rows).Error)

		assert.GreaterOrEqual(t, len(recorder.Ended()), 2)
	})
}
