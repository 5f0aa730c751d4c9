package database

import (
	"testing"

	"clinic-scheduler/config"

	"github.com/stretchr/testify/assert"
)

func TestMigrationURL(t *testing.T) {
	cfg := config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "clinic",
		Password: "p@ss word",
		Name:     "clinic",
		SSLMode:  "disable",
	}

	assert.Equal(t, "pgx5://clinic:p%40ss%20word@db:5432/clinic?sslmode=disable", MigrationURL(cfg))
}
