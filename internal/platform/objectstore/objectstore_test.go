// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package objectstore_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/quillpost/internal/platform/objectstore"
)

// fakeS3 records object writes and deletes on a path-style endpoint.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

/*
TestS3Store_PutDelete exercises the client against a fake path-style endpoint.
*/
func TestS3Store_PutDelete(t *testing.T) {
	fake := &fakeS3{objects: map[string]string{}}
	server := httptest.NewServer(fake)
	defer server.Close()

	store, err := objectstore.NewS3Store(context.Background(), objectstore.Options{
		Bucket:    "avatars",
		Region:    "us-east-1",
		Endpoint:  server.URL,
		AccessKey: "test",
		SecretKey: "test",
		PathStyle: true,
	})
	require.NoError(t, err)

	content := "png-bytes"
	err = store.Put(context.Background(), "accounts/a1/avatar.png", strings.NewReader(content), int64(len(content)), "image/png")
	require.NoError(t, err)

	fake.mu.Lock()
	assert.Contains(t, fake.objects, "/avatars/accounts/a1/avatar.png")
	fake.mu.Unlock()

	require.NoError(t, store.Delete(context.Background(), "accounts/a1/avatar.png"))

	fake.mu.Lock()
	assert.Empty(t, fake.objects)
	fake.mu.Unlock()

	assert.Equal(t, server.URL+"/avatars/accounts/a1/avatar.png", store.URL("accounts/a1/avatar.png"))
}

/*
TestS3Store_URL checks public addresses for AWS hosted buckets.
*/
func TestS3Store_URL(t *testing.T) {
	store, err := objectstore.NewS3Store(context.Background(), objectstore.Options{
		Bucket: "avatars", Region: "eu-west-1", AccessKey: "k", SecretKey: "s",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://avatars.s3.eu-west-1.amazonaws.com/key.png", store.URL("key.png"))
}

/*
TestDisabled verifies uploads fail while deletes are tolerated.
*/
func TestDisabled(t *testing.T) {
	var store objectstore.Store = objectstore.Disabled{}

	assert.ErrorIs(t, store.Put(context.Background(), "k", strings.NewReader("x"), 1, "image/png"), objectstore.ErrDisabled)
	assert.NoError(t, store.Delete(context.Background(), "k"))
	assert.Empty(t, store.URL("k"))
}
