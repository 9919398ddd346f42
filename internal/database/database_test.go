package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMySQLDSN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"mysql://app:secret@db:3306/umrah", "app:secret@tcp(db:3306)/umrah?parseTime=true&loc=UTC&charset=utf8mb4"},
		{"mysql://app:secret@db:3306/umrah?charset=utf8", "app:secret@tcp(db:3306)/umrah?charset=utf8&parseTime=true&loc=UTC"},
		{"mysql://localhost:3306/umrah", "tcp(localhost:3306)/umrah?parseTime=true&loc=UTC&charset=utf8mb4"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mysqlDSN(tt.in))
	}
}

type widget struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func TestConnect_SQLiteMemory(t *testing.T) {
	db, err := Connect(":memory:", "silent")
	require.NoError(t, err)
	assert.Equal(t, DialectSQLite, Dialect(db))

	require.NoError(t, Migrate(db, &widget{}))
	require.NoError(t, db.Create(&widget{Name: "kettle"}).Error)

	var count int64
	require.NoError(t, db.Model(&widget{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
