package healthdata

import (
	"bytes"
	"context"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"cohort/internal/platform/config"
	"cohort/pkg/domain"
)

// maxDeleteBatch is the most keys S3 accepts in one DeleteObjects call.
const maxDeleteBatch = 1000

// S3Store keeps one object per record at <prefix><healthCode>/<recordID>.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3 builds the store from configuration. Explicit credentials are
// optional; the default AWS credential chain is used otherwise.
func NewS3(ctx context.Context, cfg config.S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return NewS3FromClient(client, cfg.Bucket, cfg.Prefix), nil
}

// NewS3FromClient wraps an existing client.
func NewS3FromClient(client *s3.Client, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

// Put writes a record body.
func (s *S3Store) Put(ctx context.Context, healthCode domain.HealthCode, recordID string, body []byte) error {
	key := recordKey(s.prefix, healthCode, recordID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put health data record: %w", err)
	}
	return nil
}

// List returns the keys of every record held for the health code.
func (s *S3Store) List(ctx context.Context, healthCode domain.HealthCode) ([]string, error) {
	prefix := recordPrefix(s.prefix, healthCode)
	var keys []string
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("list health data records: %w", err)
		}
		for _, obj := range out.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		return keys, nil
	}
}

// DeleteRecordsForHealthCode removes every record under the health code's
// prefix in batches and reports how many were deleted. Deleting nothing is
// not an error. A key S3 refuses to delete fails the call after the rest of
// its batch has been removed.
func (s *S3Store) DeleteRecordsForHealthCode(ctx context.Context, healthCode domain.HealthCode) (int, error) {
	if healthCode.IsEmpty() {
		return 0, nil
	}
	keys, err := s.List(ctx, healthCode)
	if err != nil {
		return 0, err
	}
	deleted := 0
	for batch := range slices.Chunk(keys, maxDeleteBatch) {
		objects := make([]s3types.ObjectIdentifier, len(batch))
		for i, key := range batch {
			objects[i] = s3types.ObjectIdentifier{Key: aws.String(key)}
		}
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: &s.bucket,
			Delete: &s3types.Delete{Objects: objects, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return deleted, fmt.Errorf("delete health data records: %w", err)
		}
		deleted += len(batch) - len(out.Errors)
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return deleted, fmt.Errorf("delete health data record %s: %s: %s (%d of %d keys failed)",
				aws.ToString(first.Key), aws.ToString(first.Code), aws.ToString(first.Message),
				len(out.Errors), len(batch))
		}
	}
	return deleted, nil
}
