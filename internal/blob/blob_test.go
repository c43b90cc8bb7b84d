package blob

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ieee-synapse/synapse-api/internal/repository"
)

type fakeObjects struct {
	objects map[string]*s3.PutObjectInput
	data    map[string][]byte
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string]*s3.PutObjectInput{}, data: map[string][]byte{}}
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(in.Body)
	f.objects[*in.Key] = in
	f.data[*in.Key] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	obj, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(f.data[*in.Key])),
		ContentType: obj.ContentType,
		Metadata:    obj.Metadata,
	}, nil
}

func (f *fakeObjects) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	objects := newFakeObjects()
	store := NewS3Backend(objects, "thumbnails").ForSession("2024_2025")
	ctx := context.Background()

	id, err := store.Put(ctx, []byte("png"), "poster.png", "image/png")
	require.NoError(t, err)

	require.Contains(t, objects.objects, "2024_2025/"+id)
	assert.Equal(t, "thumbnails", aws.ToString(objects.objects["2024_2025/"+id].Bucket))

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got.Data)
	assert.Equal(t, "image/png", got.ContentType)
	assert.Equal(t, "poster.png", got.Filename)

	require.NoError(t, store.Delete(ctx, id))
	_, err = store.Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrBlobNotFound)
}

func TestMemoryBackend_SessionsAreIsolated(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	id, err := backend.ForSession("2023_2024").Put(ctx, []byte("a"), "a.png", "image/png")
	require.NoError(t, err)

	_, err = backend.ForSession("2024_2025").Get(ctx, id)
	assert.ErrorIs(t, err, repository.ErrBlobNotFound)

	got, err := backend.ForSession("2023_2024").Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got.Data)
	assert.Equal(t, 1, backend.Len())
}
