// Package storage keeps the working files of the timetable import.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"campus-booking/pkg/utils"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"
)

var ErrArtifactNotFound = errors.New("artifact not found")

// ArtifactStore saves and loads named blobs.
type ArtifactStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) ([]byte, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// New picks the backend configured by cfg.Driver.
func New(cfg utils.StorageConfig, log *zap.Logger) (ArtifactStore, error) {
	switch cfg.Driver {
	case "", "local":
		log.Info("Using local artifact storage", zap.String("dir", cfg.LocalDir))
		return NewLocalStorage(cfg.LocalDir), nil
	case "s3":
		log.Info("Using S3 artifact storage", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

func (ls *LocalStorage) path(name string) string {
	return filepath.Join(ls.dir, filepath.Base(name))
}

// Put writes to a temporary file first so readers never see a partial artifact.
func (ls *LocalStorage) Put(_ context.Context, name string, data []byte, _ string) error {
	if err := os.MkdirAll(ls.dir, 0755); err != nil {
		return fmt.Errorf("create artifact directory: %w", err)
	}

	tmp, err := os.CreateTemp(ls.dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), ls.path(name)); err != nil {
		return fmt.Errorf("store artifact %s: %w", name, err)
	}
	return nil
}

func (ls *LocalStorage) Get(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(ls.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	return data, nil
}

func (ls *LocalStorage) Exists(_ context.Context, name string) (bool, error) {
	_, err := os.Stat(ls.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat artifact %s: %w", name, err)
	}
	return true, nil
}

type S3Storage struct {
	client *s3.S3
	bucket string
	prefix string
}

func NewS3Storage(cfg utils.StorageConfig) (*S3Storage, error) {
	config := &aws.Config{
		Region:           aws.String(cfg.Region),
		S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
	}
	if cfg.Endpoint != "" {
		config.Endpoint = aws.String(cfg.Endpoint)
	}
	if cfg.AccessKey != "" {
		config.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &S3Storage{
		client: s3.New(sess),
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
	}, nil
}

func (ss *S3Storage) key(name string) string {
	return path.Join(ss.prefix, name)
}

func (ss *S3Storage) Put(ctx context.Context, name string, data []byte, contentType string) error {
	_, err := ss.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(ss.key(name)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("upload artifact %s: %w", name, err)
	}
	return nil
}

func (ss *S3Storage) Get(ctx context.Context, name string) ([]byte, error) {
	out, err := ss.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(ss.key(name)),
	})
	if isNotFound(err) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("download artifact %s: %w", name, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", name, err)
	}
	return data, nil
}

func (ss *S3Storage) Exists(ctx context.Context, name string) (bool, error) {
	_, err := ss.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(ss.key(name)),
	})
	if isNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("head artifact %s: %w", name, err)
	}
	return true, nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if !errors.As(err, &aerr) {
		return false
	}
	switch aerr.Code() {
	case s3.ErrCodeNoSuchKey, "NotFound":
		return true
	}
	return false
}
