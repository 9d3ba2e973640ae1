package minio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/credcheck/internal/model"
)

// fakeMinio implements minioAPI for testing without network.
type fakeMinio struct {
	bucketExists    bool
	bucketExistsErr error

	getRC  io.ReadCloser
	getErr error

	statErr error

	gotBucket string
	gotKey    string
}

func (f *fakeMinio) BucketExists(_ context.Context, bucket string) (bool, error) {
	f.gotBucket = bucket
	return f.bucketExists, f.bucketExistsErr
}
func (f *fakeMinio) GetObject(_ context.Context, bucket string, key string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	f.gotBucket, f.gotKey = bucket, key
	return f.getRC, f.getErr
}
func (f *fakeMinio) StatObject(_ context.Context, bucket string, key string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	f.gotBucket, f.gotKey = bucket, key
	return minioLib.ObjectInfo{Key: key}, f.statErr
}

func TestNewClientWithAPI(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket exists", func(t *testing.T) {
		api := &fakeMinio{bucketExists: true}
		c, err := NewClientWithAPI(ctx, api, "credentials")
		require.NoError(t, err)
		assert.Equal(t, "credentials", c.bucket)
		assert.Equal(t, "credentials", api.gotBucket)
	})

	t.Run("missing bucket is not created", func(t *testing.T) {
		api := &fakeMinio{bucketExists: false}
		c, err := NewClientWithAPI(ctx, api, "credentials")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("bucket check error", func(t *testing.T) {
		api := &fakeMinio{bucketExistsErr: errors.New("boom")}
		c, err := NewClientWithAPI(ctx, api, "credentials")
		assert.Nil(t, c)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to check bucket existence")
	})
}

func TestClient_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		api := &fakeMinio{getRC: io.NopCloser(strings.NewReader(`[]`))}
		c := &Client{api: api, bucket: "b"}
		rc, err := c.Download(ctx, "users.json")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
		assert.Equal(t, "users.json", api.gotKey)
	})

	t.Run("error", func(t *testing.T) {
		api := &fakeMinio{getErr: errors.New("get-fail")}
		c := &Client{api: api, bucket: "b"}
		rc, err := c.Download(ctx, "k")
		assert.Nil(t, rc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get object")
	})
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		c := &Client{api: &fakeMinio{}, bucket: "b"}
		ok, err := c.Exists(ctx, "k")
		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("not found", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: minioLib.ErrorResponse{Code: "NoSuchKey"}}, bucket: "b"}
		ok, err := c.Exists(ctx, "absent")
		assert.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("other error", func(t *testing.T) {
		c := &Client{api: &fakeMinio{statErr: errors.New("stat-fail")}, bucket: "b"}
		ok, err := c.Exists(ctx, "k")
		assert.False(t, ok)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat object")
	})
}

func TestDial_InvalidEndpoint(t *testing.T) {
	_, err := Dial(context.Background(), Options{Endpoint: "http://bad endpoint/"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create minio client")
}
