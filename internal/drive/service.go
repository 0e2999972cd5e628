// backend-go/internal/drive/service.go
package drive

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Service wraps a read-only Drive client authenticated with a service
// account. It backs the spreadsheet-export fallback used when the gviz
// endpoints are unreachable.
type Service struct {
	srv *drive.Service
}

// NewService builds a Drive client from a service-account credentials file.
func NewService(ctx context.Context, credentialsFile string) (*Service, error) {
	raw, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read drive credentials: %w", err)
	}

	config, err := google.JWTConfigFromJSON(raw, drive.DriveReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("parse drive credentials: %w", err)
	}

	client := config.Client(ctx)

	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("build drive client: %w", err)
	}

	return &Service{srv: srv}, nil
}

// File is the subset of Drive file metadata the dashboard cares about.
type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// GetFile returns the metadata of a single file.
func (s *Service) GetFile(ctx context.Context, fileID string) (*File, error) {
	f, err := s.srv.Files.Get(fileID).
		Fields("id", "name", "mimeType", "modifiedTime", "size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", fileID, err)
	}
	return &File{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		ModifiedTime: f.ModifiedTime,
		Size:         f.Size,
	}, nil
}

// ListFiles lists the non-trashed files in a folder. An empty folderID
// lists the Drive root.
func (s *Service) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	if folderID == "" {
		folderID = "root"
	}

	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", folderID)).
		Fields("files(id, name, mimeType, modifiedTime, size)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("list files in %s: %w", folderID, err)
	}

	var files []*File
	for _, f := range result.Files {
		files = append(files, &File{
			ID:           f.Id,
			Name:         f.Name,
			MimeType:     f.MimeType,
			ModifiedTime: f.ModifiedTime,
			Size:         f.Size,
		})
	}

	return files, nil
}

// ExportSpreadsheet downloads a Google Sheets document as an XLSX workbook.
func (s *Service) ExportSpreadsheet(ctx context.Context, fileID string) ([]byte, error) {
	resp, err := s.srv.Files.Export(fileID, xlsxMimeType).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("export spreadsheet %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet export: %w", err)
	}
	return raw, nil
}

// DownloadFile streams a regular (non-Google-Docs) file to w.
func (s *Service) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	resp, err := s.srv.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return fmt.Errorf("download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	_, err = io.Copy(w, resp.Body)
	return err
}
