package minio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig(map[string]any{
		"endpoint_url":      " https://play.min.io ",
		"use_ssl":           "true",
		"access_key_id":     "AK",
		"secret_access_key": "SK",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://play.min.io", cfg.EndpointURL)
	assert.True(t, cfg.UseSSL)
	assert.Equal(t, defaultRegion, cfg.Region)
	assert.NoError(t, cfg.Validate())

	_, err = ParseConfig(map[string]any{"use_ssl": map[string]any{"on": 1}})
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		code string
	}{
		{"missing endpoint", Config{}, CodeEndpointUnreachable},
		{"missing credentials", Config{EndpointURL: "http://localhost:9000"}, CodeAuthInvalid},
		{"file endpoint needs no credentials", Config{EndpointURL: "file:///tmp/objects"}, ""},
		{"complete", Config{EndpointURL: "http://localhost:9000", AccessKeyID: "a", SecretAccessKey: "b"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.code, CodeOf(err))
		})
	}
}

func TestNewStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(&Config{EndpointURL: "file://" + dir})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)

	store, err = NewStore(&Config{EndpointURL: "http://127.0.0.1:9000", AccessKeyID: "a", SecretAccessKey: "b", Region: defaultRegion})
	require.NoError(t, err)
	s3, ok := store.(*S3Client)
	require.True(t, ok)
	assert.Equal(t, "http", s3.client.EndpointURL().Scheme)

	_, err = NewStore(&Config{EndpointURL: "http://127.0.0.1:9000"})
	assert.Equal(t, CodeAuthInvalid, CodeOf(err))

	_, err = NewStore(nil)
	assert.Error(t, err)
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store := NewLocalStore(t.TempDir())

	require.NoError(t, store.EnsureBucket(ctx, "raw"))
	require.NoError(t, store.PutObject(ctx, "raw", "2024/01/data.bin", []byte{0, 1, 2}))

	data, err := store.GetObject(ctx, "raw", "/2024/01/data.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2}, data)

	info, err := store.StatObject(ctx, "raw", "2024/01/data.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(3), info.Size)

	_, err = store.GetObject(ctx, "raw", "missing")
	assert.Equal(t, CodeObjectNotFound, CodeOf(err))

	_, err = store.StatObject(ctx, "raw", "2024")
	assert.Equal(t, CodeObjectNotFound, CodeOf(err))

	err = store.PutObject(ctx, "raw", "../escape", []byte("x"))
	assert.Equal(t, CodePermissionDenied, CodeOf(err))

	err = store.PutObject(ctx, "", "k", nil)
	assert.Equal(t, CodeBucketNotFound, CodeOf(err))

	_, err = store.GetObject(ctx, "raw", "")
	assert.Equal(t, CodeObjectNotFound, CodeOf(err))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, store.PutObject(cancelled, "raw", "k", nil), context.Canceled)
}

func TestLocalStore_BucketNamesAreSanitized(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root)
	require.NoError(t, store.PutObject(context.Background(), "a/b", "k", []byte("v")))

	_, err := os.Stat(filepath.Join(root, "a_b", "k"))
	assert.NoError(t, err)
}

func TestClassifyMinioError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      string
		retryable bool
	}{
		{"no such key", minio.ErrorResponse{Code: "NoSuchKey"}, CodeObjectNotFound, false},
		{"no such bucket", minio.ErrorResponse{Code: "NoSuchBucket"}, CodeBucketNotFound, false},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied"}, CodePermissionDenied, false},
		{"bad signature", minio.ErrorResponse{Code: "SignatureDoesNotMatch"}, CodeAuthInvalid, false},
		{"timeout", errors.New("i/o timeout"), CodeTimeout, true},
		{"refused", errors.New("dial tcp: connection refused"), CodeEndpointUnreachable, true},
		{"other", errors.New("boom"), CodeWriteFailed, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := classifyMinioError(tt.err, CodeWriteFailed)
			require.NotNil(t, e)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.retryable, e.Retryable)
			assert.Equal(t, tt.err, e.Err)
		})
	}
	assert.Nil(t, classifyMinioError(nil, CodeReadFailed))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "E_TIMEOUT", (&Error{Code: CodeTimeout}).Error())
	assert.Equal(t, "E_TIMEOUT: slow", wrapError(CodeTimeout, true, errors.New("slow")).Error())
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}
