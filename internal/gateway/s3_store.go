package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"billing-reconciliation/internal/domain"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store mirrors FileStore on a bucket: <prefix>/drafts/<period>.json[.gz],
// <prefix>/actuals/<period>.json[.gz] and <prefix>/reports/<period>.json.
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a store over an existing client.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// NewS3StoreFromEnv creates a store using the default AWS credential chain.
func NewS3StoreFromEnv(ctx context.Context, region, bucket, prefix string) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return NewS3Store(s3.NewFromConfig(cfg), bucket, prefix), nil
}

// GetDrafts reads the draft records for period.
func (s *S3Store) GetDrafts(ctx context.Context, period string) ([]domain.Record, error) {
	return s.read(ctx, draftsDir, period)
}

// GetActuals reads the actual invoice records for period.
func (s *S3Store) GetActuals(ctx context.Context, period string) ([]domain.Record, error) {
	return s.read(ctx, actualsDir, period)
}

func (s *S3Store) read(ctx context.Context, dir, period string) ([]domain.Record, error) {
	if err := validPeriod(period); err != nil {
		return nil, err
	}

	for _, name := range []string{period + ".json", period + ".json.gz"} {
		key := s.key(dir, name)
		resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if isNoSuchKey(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("getting S3 object %s: %w", key, err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading S3 object %s: %w", key, err)
		}
		records, err := decodeMaybeGzip(data)
		if err != nil {
			return nil, fmt.Errorf("parsing S3 object %s: %w", key, err)
		}
		return records, nil
	}
	return nil, fmt.Errorf("no %s object for period %s in s3://%s/%s: %w", dir, period, s.bucket, s.prefix, fs.ErrNotExist)
}

// SaveReport uploads the run payload to reports/<period>.json.
func (s *S3Store) SaveReport(ctx context.Context, run domain.Run) error {
	if err := validPeriod(run.Period); err != nil {
		return err
	}
	data, err := json.Marshal(run.Payload)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	key := s.key(reportsDir, run.Period+".json")
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{"run-id": run.ID},
	})
	if err != nil {
		return fmt.Errorf("putting S3 object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) key(dir, name string) string {
	return path.Join(s.prefix, dir, name)
}

func isNoSuchKey(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode() == "NoSuchKey"
	}
	return false
}
