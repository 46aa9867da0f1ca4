package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"regexp"
	"strings"
	"time"

	"osmdev/internal/model"
	"osmdev/internal/repository"
	"osmdev/internal/storage"
)

var (
	ErrContentRequired   = errors.New("osm xml content is required")
	ErrInvalidSequenceID = errors.New("sequence id may only contain letters, digits, hyphen and underscore")
	ErrNotFound          = errors.New("export not found")
)

const (
	filenamePrefix = "sequence_"
	filenameSuffix = ".osm"
)

// sequenceIDPattern is the allow-list for caller-supplied identifiers.
// Everything outside it is rejected before any path construction.
var sequenceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ExportResult is returned after a successful export: the stored record
// plus the URL the file can be fetched back from.
type ExportResult struct {
	Export model.Export
	URL    string
}

// ExportListResult is the service-level DTO for paginated export history.
type ExportListResult struct {
	Items []model.Export `json:"data"`
	Total int            `json:"total"`
}

// ExportService defines the use cases for handling sequence exports.
type ExportService interface {
	// Export validates and persists one OSM XML payload under its sequence
	// id, overwriting any previous export with the same id, and returns the
	// record plus its retrieval URL.
	Export(ctx context.Context, sequenceID, osmXML string) (*ExportResult, error)

	// Fetch opens a previously exported file by filename for streaming.
	Fetch(ctx context.Context, filename string) (io.ReadCloser, storage.FileInfo, error)

	// List returns export history using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*ExportListResult, error)
}

// exportService is a concrete implementation of ExportService.
type exportService struct {
	store             storage.Store
	repo              repository.ExportRepository
	baseURL           string
	defaultSequenceID string
}

// NewExportService constructs a new ExportService. baseURL is the externally
// reachable server root used to build retrieval URLs. defaultSequenceID is
// substituted for requests that carry no id and must itself be safe.
func NewExportService(store storage.Store, repo repository.ExportRepository, baseURL, defaultSequenceID string) (ExportService, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if !sequenceIDPattern.MatchString(defaultSequenceID) {
		return nil, fmt.Errorf("default sequence id %q: %w", defaultSequenceID, ErrInvalidSequenceID)
	}
	return &exportService{
		store:             store,
		repo:              repo,
		baseURL:           strings.TrimRight(baseURL, "/"),
		defaultSequenceID: defaultSequenceID,
	}, nil
}

// Filename returns the deterministic filename for a sequence id.
func Filename(sequenceID string) string {
	return filenamePrefix + sequenceID + filenameSuffix
}

func (s *exportService) Export(ctx context.Context, sequenceID, osmXML string) (*ExportResult, error) {
	if osmXML == "" {
		return nil, ErrContentRequired
	}

	id := sequenceID
	if id == "" {
		id = s.defaultSequenceID
	}
	if !sequenceIDPattern.MatchString(id) {
		return nil, fmt.Errorf("sequence id %q: %w", id, ErrInvalidSequenceID)
	}

	filename := Filename(id)
	info, err := s.store.Write(ctx, filename, []byte(osmXML))
	if err != nil {
		return nil, fmt.Errorf("write export: %w", err)
	}

	// Record in the index. The file stays in place even if this fails:
	// overwrite semantics are last-write-wins, so removing it would destroy
	// the export rather than restore a previous state.
	stored, err := s.repo.Upsert(ctx, &model.Export{
		SequenceID: id,
		Filename:   filename,
		Size:       info.Size,
		ExportedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("record export: %w", err)
	}

	return &ExportResult{
		Export: *stored,
		URL:    s.baseURL + "/exports/" + filename,
	}, nil
}

// Fetch opens a stored export by filename. Names the store considers
// malformed or absent both map to ErrNotFound.
func (s *exportService) Fetch(ctx context.Context, filename string) (io.ReadCloser, storage.FileInfo, error) {
	r, info, err := s.store.Open(ctx, filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storage.FileInfo{}, ErrNotFound
		}
		return nil, storage.FileInfo{}, fmt.Errorf("open export: %w", err)
	}
	return r, info, nil
}

// List returns paginated export history without exposing repository types.
func (s *exportService) List(ctx context.Context, limit, offset int) (*ExportListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ExportListResult{Items: res.Items, Total: res.Total}, nil
}
