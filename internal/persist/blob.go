package persist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultName is the name of the persisted blob.
const DefaultName = "recruitment-storage"

// Blob is a single named value in a key-value backend.
// Read returns nil data and no error when nothing has been written yet.
type Blob interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
}

// FileBlob keeps the blob in a JSON file on disk.
type FileBlob struct {
	Path string
}

func NewFileBlob(path string) *FileBlob {
	return &FileBlob{Path: path}
}

func (b *FileBlob) Read(_ context.Context) ([]byte, error) {
	file, err := os.Open(b.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}

	return data, nil
}

// Write replaces the file atomically, so readers never see a partial blob.
func (b *FileBlob) Write(_ context.Context, data []byte) error {
	dir := filepath.Dir(b.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), b.Path)
}

// RedisBlob keeps the blob under a single redis key.
type RedisBlob struct {
	client redis.Cmdable
	key    string
}

func NewRedisBlob(client redis.Cmdable, key string) *RedisBlob {
	if strings.TrimSpace(key) == "" {
		key = DefaultName
	}
	return &RedisBlob{client: client, key: key}
}

func (b *RedisBlob) Read(ctx context.Context) ([]byte, error) {
	data, err := b.client.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", b.key, err)
	}
	return data, nil
}

func (b *RedisBlob) Write(ctx context.Context, data []byte) error {
	if err := b.client.Set(ctx, b.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", b.key, err)
	}
	return nil
}
