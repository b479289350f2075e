// Package source reads tree documents from files, stdin or S3.
//
// A location is "-" for stdin, s3://bucket/key for an object, or a
// filesystem path.
package source

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/vango-dev/graft/internal/config"
	"github.com/vango-dev/graft/internal/errors"
)

// DefaultMaxBytes caps the size of a document.
const DefaultMaxBytes = 4 << 20

// GetObjectAPI is the subset of *s3.Client used to fetch documents.
type GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, opts ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Reader resolves document locations.
type Reader struct {
	stdin    io.Reader
	maxBytes int64

	mu     sync.Mutex
	client GetObjectAPI
	dial   func() GetObjectAPI
}

// Option configures a Reader.
type Option func(*Reader)

// WithStdin sets the reader used for "-".
func WithStdin(r io.Reader) Option {
	return func(rd *Reader) { rd.stdin = r }
}

// WithS3Client sets the client used for s3:// locations.
func WithS3Client(c GetObjectAPI) Option {
	return func(rd *Reader) { rd.client = c }
}

// WithS3Config creates an S3 client from cfg the first time an s3://
// location is read.
func WithS3Config(cfg config.S3Config) Option {
	return func(rd *Reader) {
		rd.dial = func() GetObjectAPI { return NewS3Client(cfg) }
	}
}

// WithMaxBytes sets the document size limit.
func WithMaxBytes(n int64) Option {
	return func(rd *Reader) { rd.maxBytes = n }
}

// NewReader creates a Reader. Stdin defaults to os.Stdin.
func NewReader(opts ...Option) *Reader {
	r := &Reader{stdin: os.Stdin, maxBytes: DefaultMaxBytes}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read returns the document at loc.
func (r *Reader) Read(ctx context.Context, loc string) ([]byte, error) {
	if loc == "-" {
		return r.limit(r.stdin, "stdin")
	}
	if bucket, key, ok := ParseS3(loc); ok {
		return r.readObject(ctx, loc, bucket, key)
	}
	if strings.HasPrefix(loc, "s3://") {
		return nil, errors.New("E232").
			WithDetail("Malformed object location " + loc).
			WithSuggestion("Use s3://bucket/key")
	}

	f, err := os.Open(loc)
	if err != nil {
		return nil, errors.New("E232").WithDetail("Cannot open " + loc).Wrap(err)
	}
	defer f.Close()
	return r.limit(f, loc)
}

func (r *Reader) readObject(ctx context.Context, loc, bucket, key string) ([]byte, error) {
	c := r.s3()
	if c == nil {
		return nil, errors.New("E232").
			WithDetail("No object store configured for " + loc)
	}

	out, err := c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New("E232").WithDetail("Cannot fetch " + loc).Wrap(err)
	}
	defer out.Body.Close()
	return r.limit(out.Body, loc)
}

func (r *Reader) s3() GetObjectAPI {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil && r.dial != nil {
		r.client = r.dial()
	}
	return r.client
}

func (r *Reader) limit(src io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(src, r.maxBytes+1))
	if err != nil {
		return nil, errors.New("E232").WithDetail("Cannot read " + name).Wrap(err)
	}
	if int64(len(data)) > r.maxBytes {
		return nil, errors.New("E232").
			WithDetailf("%s exceeds %d bytes", name, r.maxBytes)
	}
	return data, nil
}

// ParseS3 splits s3://bucket/key. Both parts must be non-empty.
func ParseS3(loc string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(loc, "s3://")
	if !found {
		return "", "", false
	}
	bucket, key, found = strings.Cut(rest, "/")
	if !found || bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// NewS3Client creates a client from cfg. Credentials come from the
// standard AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY variables; without
// them requests are anonymous.
func NewS3Client(cfg config.S3Config) *s3.Client {
	o := s3.Options{
		Region:       cfg.Region,
		UsePathStyle: cfg.PathStyle,
		Credentials:  envCredentials(),
	}
	if o.Region == "" {
		o.Region = config.DefaultS3Region
	}
	if cfg.Endpoint != "" {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(o)
}

func envCredentials() aws.CredentialsProvider {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	creds := aws.Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "Environment",
	}
	return aws.NewCredentialsCache(aws.CredentialsProviderFunc(
		func(context.Context) (aws.Credentials, error) { return creds, nil },
	))
}

