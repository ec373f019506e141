package router

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/sigcarve/blobstore"
	"github.com/hupe1980/sigcarve/resource"
)

func bytesReader(b []byte) io.Reader { return bytes.NewReader(b) }

func newLimiter() *resource.Controller {
	return resource.NewController(resource.Config{IOLimitBytesPerSec: 1, IOBurst: 1})
}

func mustRead(t *testing.T, ctx context.Context, s blobstore.Store, name string) []byte {
	t.Helper()
	data, err := blobstore.ReadAll(ctx, s, name)
	require.NoError(t, err)
	return data
}
