package storage

import (
	"context"
	"fmt"
	"mime/multipart"
)

// PutFile stores a multipart upload. The content type is sniffed from the
// file's bytes, never taken from the client.
func PutFile(ctx context.Context, s Storage, fh *multipart.FileHeader, opts ...Option) (*FileInfo, error) {
	if fh == nil || fh.Size == 0 {
		return nil, ErrEmptyFile
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("storage: open upload: %w", err)
	}
	defer f.Close()

	return s.Put(ctx, f, fh.Size, opts...)
}
