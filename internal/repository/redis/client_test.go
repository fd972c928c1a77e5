package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestConnect_UnreachableRunsWithoutCache(t *testing.T) {
	client := Connect(context.Background(), "127.0.0.1:1", "", zap.NewNop())
	assert.Nil(t, client)
}
