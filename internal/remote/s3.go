package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/logging"
	"github.com/dmitrijs2005/puntos/internal/models"
)

// test seams
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// DefaultPollInterval is how often the watch loop probes the remote object
// when no interval is configured.
const DefaultPollInterval = 2 * time.Second

// S3Options configures the S3-backed document store. BaseEndpoint supports
// MinIO-style deployments; Key is the user-chosen sync key selecting the
// document.
type S3Options struct {
	Region       string
	Bucket       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	Key          string
	PollInterval time.Duration
}

// S3Store keeps the whole tracker document as a single JSON object in a
// bucket. Change subscription is an ETag-polling loop: S3 has no push
// notifications on this path, so the watcher probes the object metadata and
// fetches the body only when the ETag moves.
type S3Store struct {
	client       *s3.Client
	bucket       string
	key          string
	pollInterval time.Duration
	logger       logging.Logger

	mu       sync.Mutex
	lastETag string
}

// NewS3Store builds the S3 client from static credentials and the optional
// custom endpoint.
func NewS3Store(ctx context.Context, opts S3Options, logger logging.Logger) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	key := opts.Key
	if key == "" {
		key = "puntos"
	}

	return &S3Store{
		client:       client,
		bucket:       opts.Bucket,
		key:          key,
		pollInterval: interval,
		logger:       logger.With("module", "remote_s3", "key", key),
	}, nil
}

func (s *S3Store) Load(ctx context.Context) (*models.Snapshot, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("remote read: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("remote read: %w", err)
	}

	s.setETag(aws.ToString(out.ETag))

	return models.DecodeDocument(data)
}

func (s *S3Store) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := models.EncodeDocument(snap)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	out, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &s.key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("remote write: %w", err)
	}

	s.setETag(aws.ToString(out.ETag))
	return nil
}

// Watch polls the object's ETag and emits the decoded snapshot on change.
// Errors are logged and the loop keeps going; delivery stops when ctx is
// cancelled.
func (s *S3Store) Watch(ctx context.Context) <-chan *models.Snapshot {
	ch := make(chan *models.Snapshot, 1)

	go func() {
		defer close(ch)

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				snap, changed := s.probe(ctx)
				if !changed {
					continue
				}
				select {
				case ch <- snap:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch
}

// probe checks whether the remote object moved past the last seen ETag and
// fetches it if so.
func (s *S3Store) probe(ctx context.Context) (*models.Snapshot, bool) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.bucket,
		Key:    &s.key,
	})
	if err != nil {
		var nf *types.NotFound
		if !errors.As(err, &nf) {
			s.logger.Warn(ctx, "remote probe failed", "error", err)
		}
		return nil, false
	}

	etag := aws.ToString(head.ETag)
	s.mu.Lock()
	seen := s.lastETag
	s.mu.Unlock()
	if etag == seen {
		return nil, false
	}

	snap, err := s.Load(ctx)
	if err != nil {
		s.logger.Warn(ctx, "remote fetch failed", "error", err)
		return nil, false
	}
	return snap, true
}

func (s *S3Store) setETag(etag string) {
	s.mu.Lock()
	s.lastETag = etag
	s.mu.Unlock()
}
