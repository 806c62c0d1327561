package avatars

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// DefaultImage is the avatar given to accounts created without a file.
//
//go:embed default-user.png
var DefaultImage []byte

const defaultImageType = "image/png"

// SeedDefault writes DefaultImage as name unless the file already exists.
func (s *DiskStore) SeedDefault(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !validName(name) {
		return ErrInvalidName
	}

	f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := f.Write(DefaultImage); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	return f.Close()
}

// SeedDefault uploads DefaultImage as name. An existing object is kept.
func (s *S3Store) SeedDefault(ctx context.Context, name string) error {
	if !validName(name) {
		return ErrInvalidName
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(DefaultImage),
		ContentLength: aws.Int64(int64(len(DefaultImage))),
		ContentType:   aws.String(defaultImageType),
		IfNoneMatch:   aws.String("*"),
	})

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed object %s: %w", name, err)
	}
	return nil
}
