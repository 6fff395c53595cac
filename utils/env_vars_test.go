package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("TEST_STRING", "hello")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_INT64", "10737418240")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_EMPTY", "")

	assert.Equal(t, "hello", GetEnv("TEST_STRING", "default"))
	assert.Equal(t, 42, GetEnv("TEST_INT", 0))
	assert.Equal(t, int64(10737418240), GetEnv("TEST_INT64", int64(0)))
	assert.True(t, GetEnv("TEST_BOOL", false))
	assert.Equal(t, 90*time.Second, GetEnv("TEST_DURATION", time.Second))

	assert.Equal(t, "default", GetEnv("TEST_EMPTY", "default"))
	assert.Equal(t, 7, GetEnv("TEST_UNSET_VARIABLE", 7))
}

func TestGetEnv_InvalidValuePanics(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")

	assert.Panics(t, func() {
		GetEnv("TEST_INT", 0)
	})
}
