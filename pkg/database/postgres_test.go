package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/faculty-loading-api/pkg/config"
)

func TestConnectionStrings(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "loading", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=loading sslmode=disable", DSN(cfg))
	assert.Equal(t, "postgres://u:p@db:5432/loading?sslmode=disable", URL(cfg))
}
