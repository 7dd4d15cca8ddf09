package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/xxxsen/pdfrag/internal/config"
	appErr "github.com/xxxsen/pdfrag/internal/pkg/errors"
)

type s3Store struct {
	client *s3.Client
	bucket string
}

func init() {
	Register("s3", createS3Store)
}

func createS3Store(ctx context.Context, args Args) (Store, error) {
	if args.Bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is required", appErr.ErrConfiguration)
	}
	region := args.S3.Region
	if region == "" {
		region = config.DefaultS3Region
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if args.S3.AccessKeyID != "" || args.S3.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(args.S3.AccessKeyID, args.S3.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: load s3 config: %w", appErr.ErrConfiguration, err)
	}
	endpoint := strings.TrimSpace(args.S3.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Store{client: client, bucket: args.Bucket}, nil
}

// Open downloads the object into a temporary file, the PDF reader needs
// random access. The file is removed on Close.
func (s *s3Store) Open(ctx context.Context, key string) (Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("%w: object not found: s3://%s/%s", appErr.ErrNotFound, s.bucket, key)
		}
		return nil, fmt.Errorf("%w: get s3 object: %w", appErr.ErrProvider, err)
	}
	defer out.Body.Close()

	tmp, err := os.CreateTemp("", "pdfrag-*.pdf")
	if err != nil {
		return nil, err
	}
	remove := func() error { return os.Remove(tmp.Name()) }
	size, err := io.Copy(tmp, out.Body)
	if err != nil {
		_ = tmp.Close()
		_ = remove()
		return nil, fmt.Errorf("%w: download s3 object: %w", appErr.ErrProvider, err)
	}
	return &fileObject{
		File:    tmp,
		size:    size,
		name:    "s3://" + s.bucket + "/" + key,
		cleanup: remove,
	}, nil
}

func isS3NotFound(err error) bool {
	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return true
	}
	var noBucket *types.NoSuchBucket
	if errors.As(err, &noBucket) {
		return true
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound {
		return true
	}
	return false
}
