package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	MIMEOctetStream    = "application/octet-stream"
	mimeDetectionBytes = 512
)

var extByMIME = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"image/bmp":       ".bmp",
	"application/pdf": ".pdf",
	"application/zip": ".zip",
	"text/plain":      ".txt",
	"text/csv":        ".csv",
	"text/html":       ".html",
	"audio/mpeg":      ".mp3",
	"audio/wave":      ".wav",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
}

// ExtFromMIME returns the file extension for a MIME type, or "".
func ExtFromMIME(mimeType string) string {
	return extByMIME[normalizeMIME(mimeType)]
}

// DetectMIME sniffs up to 512 bytes of data.
func DetectMIME(data []byte) string {
	if len(data) == 0 {
		return MIMEOctetStream
	}
	if len(data) > mimeDetectionBytes {
		data = data[:mimeDetectionBytes]
	}
	return normalizeMIME(http.DetectContentType(data))
}

// detectMIMEWithReader sniffs r and returns a reader positioned at the start.
// The S3 client needs an io.ReadSeeker to hash the payload, so non-seekable
// input is buffered.
func detectMIMEWithReader(r io.Reader) (string, io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		buf := make([]byte, mimeDetectionBytes)
		n, err := io.ReadFull(rs, buf)
		if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return "", nil, fmt.Errorf("storage: read input: %w", err)
		}
		if _, err := rs.Seek(0, io.SeekStart); err != nil {
			return "", nil, fmt.Errorf("storage: rewind input: %w", err)
		}
		return DetectMIME(buf[:n]), rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("storage: read input: %w", err)
	}
	return DetectMIME(data), bytes.NewReader(data), nil
}

func seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("storage: read input: %w", err)
	}
	return bytes.NewReader(data), nil
}

func normalizeMIME(mimeType string) string {
	mimeType, _, _ = strings.Cut(mimeType, ";")
	return strings.TrimSpace(strings.ToLower(mimeType))
}

// matchesMIME supports exact types and "type/*" wildcards.
func matchesMIME(mimeType string, allowed []string) bool {
	mimeType = normalizeMIME(mimeType)
	for _, pattern := range allowed {
		pattern = strings.TrimSpace(strings.ToLower(pattern))
		if mimeType == pattern {
			return true
		}
		if prefix, ok := strings.CutSuffix(pattern, "*"); ok && strings.HasSuffix(prefix, "/") && strings.HasPrefix(mimeType, prefix) {
			return true
		}
	}
	return false
}
