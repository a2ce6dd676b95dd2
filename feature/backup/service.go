package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"msc/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ErrNoBucket is returned when the configured bucket does not exist.
var ErrNoBucket = errors.New("backup bucket does not exist")

const timestampLayout = "20060102T150405Z"

// Backup is one archived settings file.
type Backup struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Service stores copies of settings files before they are replaced.
type Service struct {
	client  storage.Client
	bucket  string
	prefix  string
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewService creates a backup service writing to the bucket and prefix of cfg.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger) *Service {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		timeout: timeout,
		logger:  logger,
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Archive uploads previous, the current content of file name in dir.
func (s *Service) Archive(ctx context.Context, dir, name string, previous []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNoBucket, s.bucket)
	}

	key := s.dirPrefix(dir) + fmt.Sprintf("%s-%s-%s", s.now().UTC().Format(timestampLayout), s.newID(), name)
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(previous), int64(len(previous)), minio.PutObjectOptions{
		ContentType: "text/plain; charset=utf-8",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}

	s.logger.Info("Settings backed up", zap.String("bucket", s.bucket), zap.String("key", key))
	return nil
}

// List returns the backups of dir, oldest first.
func (s *Service) List(ctx context.Context, dir string) ([]Backup, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var backups []Backup
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: s.dirPrefix(dir), Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list backups: %w", obj.Err)
		}
		backups = append(backups, Backup{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.Slice(backups, func(i, j int) bool { return backups[i].Key < backups[j].Key })
	return backups, nil
}

// dirPrefix groups backups by the server directory's name.
func (s *Service) dirPrefix(dir string) string {
	base := filepath.Base(filepath.Clean(dir))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "root"
	}
	return path.Join(s.prefix, base) + "/"
}
