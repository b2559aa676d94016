package gateway

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billing-reconciliation/internal/domain"
)

type fakeS3 struct {
	objects map[string][]byte
	meta    map[string]map[string]string
	getErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, meta: map[string]map[string]string{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = data
	f.meta[aws.ToString(in.Key)] = in.Metadata
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Get(t *testing.T) {
	fake := newFakeS3()
	fake.objects["billing/drafts/2025-03-31.json.gz"] = gzipBytes(t, []byte(`[{"BillingClient":"C1"}]`))
	fake.objects["billing/actuals/2025-03-31.json"] = []byte(`{"value":[{"BillingClient":"C1"}]}`)

	store := NewS3Store(fake, "bucket", "billing")

	drafts, err := store.GetDrafts(context.Background(), "2025-03-31")
	require.NoError(t, err)
	assert.Len(t, drafts, 1)

	actuals, err := store.GetActuals(context.Background(), "2025-03-31")
	require.NoError(t, err)
	assert.Len(t, actuals, 1)

	_, err = store.GetActuals(context.Background(), "2025-01-31")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestS3Store_Get_PropagatesAccessErrors(t *testing.T) {
	fake := newFakeS3()
	fake.getErr = &smithy.GenericAPIError{Code: "AccessDenied"}
	store := NewS3Store(fake, "bucket", "")

	_, err := store.GetDrafts(context.Background(), "2025-03-31")
	require.Error(t, err)

	var apiErr smithy.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "AccessDenied", apiErr.ErrorCode())
}

func TestS3Store_SaveReport(t *testing.T) {
	fake := newFakeS3()
	store := NewS3Store(fake, "bucket", "billing")

	err := store.SaveReport(context.Background(), domain.Run{
		ID:      "run-7",
		Period:  "2025-03-31",
		Payload: &domain.Payload{Period: "2025-03-31"},
	})
	require.NoError(t, err)

	assert.Contains(t, string(fake.objects["billing/reports/2025-03-31.json"]), `"period":"2025-03-31"`)
	assert.Equal(t, "run-7", fake.meta["billing/reports/2025-03-31.json"]["run-id"])
}
