package client

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"filedesk/internal/config"
	models "filedesk/internal/domain/models/docsystem"
	docsysSvc "filedesk/internal/domain/services/docsystem"

	"github.com/dustin/go-humanize"
)

// AllowedExtensions lists the file types accepted for upload
var AllowedExtensions = []string{
	".pdf", ".doc", ".docx", ".txt", ".md", ".csv",
	".xls", ".xlsx", ".ppt", ".pptx", ".png", ".jpg", ".jpeg",
}

// UploadCandidate is a local file picked for upload
type UploadCandidate struct {
	Name string
	Size int64 // Bytes
}

// SizeLabel is the human-readable size stored with the document
func (c UploadCandidate) SizeLabel() string {
	return humanize.Bytes(uint64(max(c.Size, 0)))
}

// UploadError is a per-file failure, either a local pre-check or a server
// rejection.
type UploadError struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// UploadResult reports a batch upload file by file
type UploadResult struct {
	Uploaded []models.Document `json:"uploaded"`
	Errors   []UploadError     `json:"errors"`
}

// DocumentCreator creates document records
type DocumentCreator interface {
	CreateDocument(ctx context.Context, req *docsysSvc.CreateDocumentRequest) (*models.Document, error)
}

// ValidateUploads checks a batch before any network call. Every offending
// file gets its own entry; an empty result means the batch may be sent.
func ValidateUploads(files []UploadCandidate) []UploadError {
	var problems []UploadError
	for i, reason := range precheck(files) {
		if reason != "" {
			problems = append(problems, UploadError{Name: files[i].Name, Reason: reason})
		}
	}
	return problems
}

// precheck returns one reason per file, empty when the file passes. Only the
// second and later copies of a repeated name are flagged.
func precheck(files []UploadCandidate) []string {
	reasons := make([]string, len(files))
	seen := make(map[string]bool, len(files))
	for i, f := range files {
		name := strings.TrimSpace(f.Name)
		reasons[i] = checkUpload(name, f.Size, seen[name])
		seen[name] = true
	}
	return reasons
}

func checkUpload(name string, size int64, duplicate bool) string {
	switch {
	case name == "":
		return "file name is required"
	case len(name) > config.MaxDocumentNameLength:
		return fmt.Sprintf("file name cannot exceed %d characters", config.MaxDocumentNameLength)
	case !slices.Contains(AllowedExtensions, strings.ToLower(filepath.Ext(name))):
		return fmt.Sprintf("file type %q is not allowed", filepath.Ext(name))
	case size <= 0:
		return "file is empty"
	case size > config.MaxUploadBytes:
		return fmt.Sprintf("file is %s, larger than the %s limit",
			humanize.Bytes(uint64(size)), humanize.IBytes(config.MaxUploadBytes))
	case duplicate:
		return "file appears more than once in this upload"
	}
	return ""
}

// UploadAll validates the batch and, only when every file passes, creates a
// document per file. Server rejections (such as a duplicate name) are
// reported per file with the server's message.
func UploadAll(ctx context.Context, creator DocumentCreator, userID int64, folderID *int64, files []UploadCandidate) *UploadResult {
	result := &UploadResult{
		Uploaded: []models.Document{},
		Errors:   ValidateUploads(files),
	}
	if len(result.Errors) > 0 {
		return result
	}
	result.Errors = []UploadError{}

	for _, f := range files {
		doc, err := creator.CreateDocument(ctx, &docsysSvc.CreateDocumentRequest{
			UserID:   userID,
			Name:     strings.TrimSpace(f.Name),
			FileSize: f.SizeLabel(),
			FolderID: folderID,
		})
		if err != nil {
			result.Errors = append(result.Errors, UploadError{Name: f.Name, Reason: err.Error()})
			continue
		}
		result.Uploaded = append(result.Uploaded, *doc)
	}

	return result
}
