// Package upload stages image attachments from multipart requests under the
// attachment root, enforcing count, size and type constraints before any
// business logic observes them.
package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/minishop-api/shared/apperror"
)

const (
	// FieldName is the multipart field the gate accepts files under.
	FieldName = "photos"

	// MaxFiles bounds a single submission. A submission exceeding it is
	// rejected entirely; there is no partial acceptance.
	MaxFiles = 5

	// MaxFileSize caps both each file and the whole submission.
	MaxFileSize = 5 << 20
)

// StagedFile describes one accepted file written under the attachment root.
// Ownership transfers to the caller, which must either bind StoredPath into a
// persisted record or call Discard.
type StagedFile struct {
	OriginalName string
	StoredPath   string
	ContentType  string
	Size         int64
}

// Submission is the result of staging one multipart request: the accepted
// files plus the non-file form values that arrived alongside them.
type Submission struct {
	Files  []StagedFile
	Values map[string]string
}

// Gate validates and persists image attachments.
type Gate struct {
	dir    string
	logger *zerolog.Logger
}

// NewGate creates a Gate storing files under dir, creating it if needed.
func NewGate(dir string, logger *zerolog.Logger) (*Gate, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create attachment directory: %w", err)
	}

	return &Gate{dir: dir, logger: logger}, nil
}

// Dir returns the attachment root.
func (g *Gate) Dir() string {
	return g.dir
}

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
}

// Stage reads the multipart body of r, writing each accepted file under the
// attachment root. Any constraint violation rejects the whole submission:
// files already written for this request are removed before the error is
// returned, so a rejected submission stores nothing.
func (g *Gate) Stage(r *http.Request) (*Submission, error) {
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, apperror.NewInput("expected a multipart request")
	}

	submission := &Submission{Values: make(map[string]string)}

	var total int64
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			g.Discard(submission.Files)
			return nil, apperror.NewSystem("failed to read multipart body", err)
		}

		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, 1<<20))
			if err != nil {
				g.Discard(submission.Files)
				return nil, apperror.NewSystem("failed to read form value", err)
			}
			submission.Values[part.FormName()] = string(value)
			continue
		}

		if part.FormName() != FieldName {
			continue
		}

		if len(submission.Files) == MaxFiles {
			g.Discard(submission.Files)
			return nil, apperror.NewInput("too many files")
		}

		staged, err := g.stagePart(part)
		if err != nil {
			g.Discard(submission.Files)
			return nil, err
		}

		total += staged.Size
		if total > MaxFileSize {
			g.Discard(append(submission.Files, *staged))
			return nil, apperror.NewInput("file too large").WithStatus(http.StatusRequestEntityTooLarge)
		}

		submission.Files = append(submission.Files, *staged)
	}

	return submission, nil
}

func (g *Gate) stagePart(part *multipart.Part) (*StagedFile, error) {
	contentType := part.Header.Get("Content-Type")
	if !allowedTypes[contentType] {
		return nil, apperror.NewInput("only .jpg and .png files are allowed")
	}

	// Timestamp plus a random suffix keeps concurrently staged files with the
	// same original name from colliding.
	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], filepath.Base(part.FileName()))
	storedPath := filepath.Join(g.dir, name)

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, apperror.NewSystem("failed to create attachment file", err)
	}

	written, err := io.Copy(dst, io.LimitReader(part, MaxFileSize+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		g.removeFile(storedPath)
		return nil, apperror.NewSystem("failed to write attachment file", err)
	}

	if written > MaxFileSize {
		g.removeFile(storedPath)
		return nil, apperror.NewInput("file too large").WithStatus(http.StatusRequestEntityTooLarge)
	}

	return &StagedFile{
		OriginalName: part.FileName(),
		StoredPath:   storedPath,
		ContentType:  contentType,
		Size:         written,
	}, nil
}

// Discard deletes staged files after a downstream rejection. Deletion
// failures are logged, never surfaced: the primary outcome has already been
// decided by the time cleanup runs.
func (g *Gate) Discard(files []StagedFile) {
	for _, file := range files {
		g.removeFile(file.StoredPath)
	}
}

// RemovePaths deletes previously bound attachment files, best effort. Used
// when the record that owned them is deleted.
func (g *Gate) RemovePaths(paths []string) {
	for _, path := range paths {
		g.removeFile(path)
	}
}

func (g *Gate) removeFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		g.logger.Error().Err(err).Str("path", path).Msg("failed to delete attachment file")
	}
}
