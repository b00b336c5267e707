package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"
)

// ObjectStore is write-once blob storage for attachments.
type ObjectStore interface {
	// Put stores r under objectName and returns a durable retrieval URL.
	Put(ctx context.Context, objectName, contentType string, r io.Reader, size int64) (string, error)
}

// AttachmentPath namespaces an upload by user, category and upload time so
// uploads never overwrite each other.
func AttachmentPath(userID uint, categoryID string, at time.Time, filename string) string {
	return path.Join(
		"attachments",
		fmt.Sprintf("%d", userID),
		categoryID,
		fmt.Sprintf("%d", at.UnixMilli()),
		sanitizeFilename(filename),
	)
}

func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
}
