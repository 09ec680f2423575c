package database

import (
	"testing"

	"cottage-booking/config"

	"github.com/stretchr/testify/assert"
)

func TestMigrationURL_EscapesCredentials(t *testing.T) {
	got := migrationURL(config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "cottage",
		Password: "p@ss/word",
		Name:     "bookings",
	})
	assert.Equal(t, "postgres://cottage:p%40ss%2Fword@db:5432/bookings?sslmode=disable", got)
}
