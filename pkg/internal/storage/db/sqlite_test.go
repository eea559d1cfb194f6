package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithSQLiteParam(t *testing.T) {
	assert.Equal(t, "file:catalog.db?_busy_timeout=5000", withSQLiteParam("file:catalog.db", "_busy_timeout=5000"))
	assert.Equal(t, "file::memory:?cache=shared&_busy_timeout=5000", withSQLiteParam("file::memory:?cache=shared", "_busy_timeout=5000"))
	assert.Equal(t, "file:x.db?_pragma=busy_timeout(100)", withSQLiteParam("file:x.db?_pragma=busy_timeout(100)", "_busy_timeout=5000"))
}
