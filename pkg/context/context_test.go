package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	ctxPkg "github.com/yeisme/videocatalog/pkg/context"
	"github.com/yeisme/videocatalog/pkg/internal/storage"
	dbc "github.com/yeisme/videocatalog/pkg/internal/storage/db"
)

func TestBackendsWithoutManager(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, ctxPkg.GetManager(ctx))
	assert.Nil(t, ctxPkg.GetDBClient(ctx))
	assert.Nil(t, ctxPkg.GetKVClient(ctx))
	assert.Nil(t, ctxPkg.GetS3Client(ctx))
	assert.Nil(t, ctxPkg.GetMQClient(ctx))
}

func TestBackendsFromManager(t *testing.T) {
	db := &dbc.Client{}
	ctx := ctxPkg.WithStorageManager(context.Background(), &storage.Manager{DB: db})

	assert.Same(t, db, ctxPkg.GetDBClient(ctx))
	assert.Nil(t, ctxPkg.GetMQClient(ctx))
}
