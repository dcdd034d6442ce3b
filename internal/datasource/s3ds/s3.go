// Package s3ds reads and writes tables as S3 objects.
package s3ds

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"rosterclean/internal/config"
	"rosterclean/internal/datasource"
)

// ObjectAPI is the subset of *s3.Client used here.
type ObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var _ ObjectAPI = (*s3.Client)(nil)

// NewClient builds an S3 client from c. Static keys are used when present;
// otherwise the default AWS credential chain applies.
func NewClient(ctx context.Context, c config.S3) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if c.Region != "" {
		opts = append(opts, awsconfig.WithRegion(c.Region))
	}
	if c.HasStaticCredentials() {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKeyID, c.SecretAccessKey, c.SessionToken)))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.UsePathStyle
	}), nil
}

var (
	_ datasource.Source = (*Object)(nil)
	_ datasource.Sink   = (*Object)(nil)
)

// Object is one S3 object, usable as both Source and Sink.
type Object struct {
	api    ObjectAPI
	bucket string
	key    string
}

// NewObject binds bucket/key to api.
func NewObject(api ObjectAPI, bucket, key string) *Object {
	return &Object{api: api, bucket: bucket, key: strings.TrimPrefix(key, "/")}
}

func (o *Object) String() string { return "s3://" + o.bucket + "/" + o.key }

// Open streams the object body. A missing bucket or key matches
// datasource.ErrNotFound.
func (o *Object) Open(ctx context.Context) (io.ReadCloser, error) {
	out, err := o.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("get %s: %w: %w", o, datasource.ErrNotFound, err)
		}
		return nil, fmt.Errorf("get %s: %w", o, err)
	}
	return out.Body, nil
}

// Put uploads the full contents of r as the object body. The payload is
// buffered so the request carries a known length.
func (o *Object) Put(ctx context.Context, r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("put %s: read payload: %w", o, err)
	}
	in := &s3.PutObjectInput{
		Bucket:        aws.String(o.bucket),
		Key:           aws.String(o.key),
		Body:          bytes.NewReader(b),
		ContentLength: aws.Int64(int64(len(b))),
	}
	if ct := contentType(o.key); ct != "" {
		in.ContentType = aws.String(ct)
	}
	if _, err := o.api.PutObject(ctx, in); err != nil {
		return fmt.Errorf("put %s: %w", o, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return true
		}
	}
	return false
}

func contentType(key string) string {
	switch strings.ToLower(path.Ext(key)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".parquet":
		return "application/vnd.apache.parquet"
	}
	return ""
}
