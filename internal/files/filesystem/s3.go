package filesystem

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Scheme prefixes input roots stored in S3.
const S3Scheme = "s3://"

// S3Config configures the S3 client.
type S3Config struct {
	// Region is the AWS region of the bucket.
	Region string
	// Endpoint is an optional custom endpoint (MinIO, LocalStack).
	// Setting it enables path-style addressing.
	Endpoint string
}

// s3API is the subset of *s3.Client used here.
type s3API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3FileSystem reads s3://bucket/prefix roots. Object keys are treated as
// slash-separated paths; keys ending in "/" are directory markers.
type S3FileSystem struct {
	client s3API
}

// NewS3FileSystem creates a provider using the default AWS credential chain.
func NewS3FileSystem(ctx context.Context, cfg S3Config) (*S3FileSystem, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3FileSystem{client: s3.NewFromConfig(awsCfg, s3Opts...)}, nil
}

func newS3FileSystemWithClient(client s3API) *S3FileSystem {
	return &S3FileSystem{client: client}
}

// IsS3URI reports whether path names an S3 location.
func IsS3URI(path string) bool {
	return strings.HasPrefix(path, S3Scheme)
}

// ParseS3URI splits s3://bucket/key into bucket and key.
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("not an S3 URI: %s", uri)
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, S3Scheme), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("S3 URI has no bucket: %s", uri)
	}
	return bucket, key, nil
}

// Open checks that at least one object exists under the prefix.
func (p *S3FileSystem) Open(ctx context.Context, uri string) (Directory, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	prefix := key
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	out, err := p.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", uri, err)
	}
	if len(out.Contents) == 0 {
		return nil, fmt.Errorf("directory not found: %s", uri)
	}

	return &s3Directory{client: p.client, bucket: bucket, prefix: prefix}, nil
}

func (p *S3FileSystem) ReadFile(ctx context.Context, uri string) ([]byte, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}

	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", uri, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", uri, err)
	}
	return data, nil
}

type s3Directory struct {
	client s3API
	bucket string
	prefix string
}

func (d *s3Directory) Path() string {
	return S3Scheme + d.bucket + "/" + d.prefix
}

// Walk lists every key under the prefix. S3 returns keys in UTF-8 binary
// order, which is lexical.
func (d *s3Directory) Walk(ctx context.Context, fn func(File) error) error {
	paginator := s3.NewListObjectsV2Paginator(d.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(d.bucket),
		Prefix: aws.String(d.prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", d.Path(), err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			rel := strings.TrimPrefix(key, d.prefix)
			if rel == "" {
				continue
			}

			e := &entry{
				path:    S3Scheme + d.bucket + "/" + key,
				relPath: strings.TrimSuffix(rel, "/"),
				isDir:   strings.HasSuffix(key, "/"),
			}
			if err := fn(e); err != nil {
				return err
			}
		}
	}
	return nil
}
