package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tradedispatch/dispatch-api/config"
)

func TestStoreLabel(t *testing.T) {
	assert.Equal(t, "memory", storeLabel(&config.AppConfig{}))
	assert.Equal(t, "postgres://db.internal/dispatch", storeLabel(&config.AppConfig{
		Postgres: config.DBConfig{Host: "db.internal", Name: "dispatch"},
	}))
}

func TestBuildVersion(t *testing.T) {
	assert.NotEmpty(t, buildVersion())
}
