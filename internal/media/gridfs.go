package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFSStorage keeps files in a MongoDB GridFS bucket, one file per key.
type GridFSStorage struct {
	bucket *gridfs.Bucket
}

// NewGridFSStorage opens (or lazily creates) the "media" bucket of db.
func NewGridFSStorage(db *mongo.Database) (*GridFSStorage, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("media"))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket: %w", err)
	}
	return &GridFSStorage{bucket: bucket}, nil
}

func (s *GridFSStorage) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	key, ok := CleanKey(name)
	if !ok {
		return "", fmt.Errorf("invalid media name %q", name)
	}
	exists, err := s.exists(ctx, key)
	if err != nil {
		return "", err
	}
	if exists {
		key = alternateName(key, uuid.NewString()[:7])
	}

	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetWriteDeadline(deadline); err != nil {
			return "", err
		}
	}
	if _, err := s.bucket.UploadFromStream(key, r); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

func (s *GridFSStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	key, ok := CleanKey(key)
	if !ok {
		return nil, ErrNotFound
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := s.bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}
	stream, err := s.bucket.OpenDownloadStreamByName(key)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return stream, nil
}

func (s *GridFSStorage) Delete(ctx context.Context, key string) error {
	cursor, err := s.bucket.Find(bson.M{"filename": key})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	found := false
	for cursor.Next(ctx) {
		var file struct {
			ID interface{} `bson:"_id"`
		}
		if err := cursor.Decode(&file); err != nil {
			return err
		}
		if err := s.bucket.Delete(file.ID); err != nil {
			return err
		}
		found = true
	}
	if err := cursor.Err(); err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	return nil
}

func (s *GridFSStorage) exists(ctx context.Context, key string) (bool, error) {
	cursor, err := s.bucket.Find(bson.M{"filename": key}, options.GridFSFind().SetLimit(1))
	if err != nil {
		return false, err
	}
	defer cursor.Close(ctx)
	return cursor.Next(ctx), cursor.Err()
}
