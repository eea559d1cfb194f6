package mq

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrameKeepsUUIDAndMetadata(t *testing.T) {
	b, err := sonic.Marshal(redisFrame{
		UUID:     "msg-1",
		Metadata: map[string]string{"topic": "videocatalog.videos.deleted"},
		Payload:  []byte(`{"ids":["v1"]}`),
	})
	require.NoError(t, err)

	msg, err := decodeFrame(string(b))
	require.NoError(t, err)
	assert.Equal(t, "msg-1", msg.UUID)
	assert.Equal(t, "videocatalog.videos.deleted", msg.Metadata.Get("topic"))
	assert.JSONEq(t, `{"ids":["v1"]}`, string(msg.Payload))
}

func TestDecodeFrameRejectsGarbage(t *testing.T) {
	_, err := decodeFrame("not json")
	assert.Error(t, err)
}
