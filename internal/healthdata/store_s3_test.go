package healthdata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohort/internal/platform/config"
)

// fakeS3 serves the subset of the S3 API the store uses. Listings are paged
// pageSize keys at a time so the continuation loop is exercised. Keys in
// denied are reported as per-key errors by batch deletes.
type fakeS3 struct {
	mu       sync.Mutex
	objects  map[string]struct{}
	denied   map[string]struct{}
	pageSize int
	batches  []int
}

var deleteKeyPattern = regexp.MustCompile(`<Key>([^<]+)</Key>`)

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}

	if req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2" {
		return f.list(req.URL.Query().Get("prefix"), req.URL.Query().Get("continuation-token")), nil
	}
	if req.Method == http.MethodPost && req.URL.Query().Has("delete") {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		return f.deleteBatch(body), nil
	}
	if req.Method == http.MethodPut {
		_, _ = io.Copy(io.Discard, req.Body)
		f.objects[key] = struct{}{}
		return respond(http.StatusOK, ""), nil
	}
	return respond(http.StatusNotImplemented, ""), nil
}

func (f *fakeS3) deleteBatch(body []byte) *http.Response {
	matches := deleteKeyPattern.FindAllSubmatch(body, -1)
	f.batches = append(f.batches, len(matches))

	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><DeleteResult>`)
	for _, m := range matches {
		k := string(m[1])
		if _, ok := f.denied[k]; ok {
			fmt.Fprintf(&b, "<Error><Key>%s</Key><Code>AccessDenied</Code><Message>Access Denied</Message></Error>", k)
			continue
		}
		delete(f.objects, k)
	}
	b.WriteString("</DeleteResult>")
	resp := respond(http.StatusOK, b.String())
	resp.Header.Set("Content-Type", "application/xml")
	return resp
}

func (f *fakeS3) list(prefix, token string) *http.Response {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if token != "" {
		start, _ = strconv.Atoi(token)
	}
	end := min(start+f.pageSize, len(keys))

	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><ListBucketResult>`)
	if end < len(keys) {
		fmt.Fprintf(&b, "<IsTruncated>true</IsTruncated><NextContinuationToken>%d</NextContinuationToken>", end)
	} else {
		b.WriteString("<IsTruncated>false</IsTruncated>")
	}
	for _, k := range keys[start:end] {
		fmt.Fprintf(&b, "<Contents><Key>%s</Key><Size>1</Size><LastModified>2024-01-01T00:00:00Z</LastModified></Contents>", k)
	}
	b.WriteString("</ListBucketResult>")
	resp := respond(http.StatusOK, b.String())
	resp.Header.Set("Content-Type", "application/xml")
	return resp
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{},
	}
}

func newFakeStore(t *testing.T, fake *fakeS3) *S3Store {
	t.Helper()
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("https://mock.s3.local")
		o.HTTPClient = &http.Client{Transport: fake}
		o.UsePathStyle = true
	})
	return NewS3FromClient(client, "health-bucket", "healthdata/")
}

func TestS3Store_DeleteRecordsForHealthCode(t *testing.T) {
	fake := &fakeS3{objects: map[string]struct{}{}, pageSize: 2}
	for i := range 5 {
		fake.objects[fmt.Sprintf("healthdata/hc-1/record-%d", i)] = struct{}{}
	}
	fake.objects["healthdata/hc-2/record-0"] = struct{}{}
	fake.objects["healthdata/hc-10/record-0"] = struct{}{}
	store := newFakeStore(t, fake)
	ctx := context.Background()

	keys, err := store.List(ctx, "hc-1")
	require.NoError(t, err)
	assert.Len(t, keys, 5, "all pages are collected")

	n, err := store.DeleteRecordsForHealthCode(ctx, "hc-1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{5}, fake.batches, "one request deletes the whole listing")
	assert.Len(t, fake.objects, 2, "other participants keep their records")
	assert.Contains(t, fake.objects, "healthdata/hc-10/record-0")

	n, err = store.DeleteRecordsForHealthCode(ctx, "hc-1")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = store.DeleteRecordsForHealthCode(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestS3Store_DeleteRecordsInBatches(t *testing.T) {
	fake := &fakeS3{objects: map[string]struct{}{}, pageSize: 1000}
	for i := range maxDeleteBatch + 1 {
		fake.objects[fmt.Sprintf("healthdata/hc-1/record-%04d", i)] = struct{}{}
	}
	store := newFakeStore(t, fake)

	n, err := store.DeleteRecordsForHealthCode(context.Background(), "hc-1")
	require.NoError(t, err)
	assert.Equal(t, maxDeleteBatch+1, n)
	assert.Equal(t, []int{maxDeleteBatch, 1}, fake.batches)
	assert.Empty(t, fake.objects)
}

func TestS3Store_DeleteReportsRefusedKeys(t *testing.T) {
	fake := &fakeS3{
		objects:  map[string]struct{}{},
		denied:   map[string]struct{}{"healthdata/hc-1/record-1": {}},
		pageSize: 10,
	}
	for i := range 3 {
		fake.objects[fmt.Sprintf("healthdata/hc-1/record-%d", i)] = struct{}{}
	}
	store := newFakeStore(t, fake)

	n, err := store.DeleteRecordsForHealthCode(context.Background(), "hc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "healthdata/hc-1/record-1")
	assert.Contains(t, err.Error(), "AccessDenied")
	assert.Equal(t, 2, n, "the rest of the batch is still deleted")
	assert.Equal(t, map[string]struct{}{"healthdata/hc-1/record-1": {}}, fake.objects)
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakeS3{objects: map[string]struct{}{}, pageSize: 10}
	store := newFakeStore(t, fake)

	require.NoError(t, store.Put(context.Background(), "hc-1", "upload-1", []byte(`{"steps":10}`)))
	assert.Contains(t, fake.objects, "healthdata/hc-1/upload-1")
}

func TestNewS3(t *testing.T) {
	_, err := NewS3(context.Background(), config.S3Config{})
	assert.Error(t, err)

	store, err := NewS3(context.Background(), config.S3Config{
		Bucket:          "bkt",
		Endpoint:        "https://mock.s3.local",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "bkt", store.bucket)
}

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()
	require.NoError(t, store.Put(ctx, "hc-1", "a", []byte("x")))
	require.NoError(t, store.Put(ctx, "hc-1", "b", []byte("y")))

	n, err := store.DeleteRecordsForHealthCode(ctx, "hc-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Zero(t, store.Count("hc-1"))
}
