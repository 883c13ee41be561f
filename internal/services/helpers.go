package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"vitrine/pkg/storage"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

// FileStorage persists uploaded files. Save returns a path relative to the
// storage root; Delete must tolerate missing files and external URLs.
type FileStorage interface {
	Save(ctx context.Context, file *multipart.FileHeader, folder string) (string, error)
	Delete(ctx context.Context, path string) error
}

// uploadFiles saves files concurrently and returns their paths in input order.
// On failure the files that were saved are removed again.
func uploadFiles(ctx context.Context, store FileStorage, logger *logrus.Logger, files []*multipart.FileHeader, folder string) ([]string, error) {
	paths := make([]string, len(files))
	if len(files) == 0 {
		return paths, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			path, err := store.Save(gctx, file, folder)
			if err != nil {
				return fmt.Errorf("failed to save %s: %w", file.Filename, err)
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		removeFiles(context.WithoutCancel(ctx), store, logger, paths)
		return nil, err
	}
	return paths, nil
}

// removeFiles deletes stored files, skipping external URLs. Failures are
// logged, not returned.
func removeFiles(ctx context.Context, store FileStorage, logger *logrus.Logger, paths []string) {
	for _, path := range paths {
		if path == "" || storage.IsExternal(path) {
			continue
		}
		if err := store.Delete(ctx, path); err != nil {
			logger.WithError(err).WithField("path", path).Warn("failed to delete stored file")
		}
	}
}

// setIf copies *value into fields under column when value is present.
func setIf[T any](fields map[string]interface{}, column string, value *T) {
	if value != nil {
		fields[column] = *value
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
