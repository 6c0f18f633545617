package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add orders table", "add_orders_table"},
		{"Add-Orders-Table", "add_orders_table"},
		{"add__orders__table", "add_orders_table"},
		{"special!@#$chars", "special_chars"},
		{"   spaces   ", "spaces"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 7, 4, 9, 30, 0, 0, time.UTC)

	mf, err := CreateMigration(dir, "Add order notes", "", now)

	require.NoError(t, err)
	assert.Equal(t, "20250704093000", mf.Version)
	assert.Equal(t, filepath.Join(dir, "20250704093000_add_order_notes.up.sql"), mf.UpPath)

	up, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Description: Add order notes")

	down, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")
}

func TestCreateMigration_RejectsEmptyName(t *testing.T) {
	_, err := CreateMigration(t.TempDir(), "!!!", "", time.Now())
	assert.Error(t, err)
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"20250102000000_b.up.sql", "20250101000000_a.up.sql", "20250101000000_a.down.sql"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	names, err := ListMigrations(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{"20250101000000_a", "20250102000000_b"}, names)
}

func TestListMigrations_ShippedSchema(t *testing.T) {
	names, err := ListMigrations(filepath.Join("..", "..", "..", "migrations"))

	require.NoError(t, err)
	assert.Contains(t, names, "20250601120000_init_schema")
}
