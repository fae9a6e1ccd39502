// Package dump writes the mapped pages of an address space to storage.
package dump

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/stride/internal/clock"
	amm "github.com/viant/stride/model/mm"
	"github.com/viant/stride/service/mm"
)

// Service uploads memory dumps under a base URL.
type Service struct {
	fs      afs.Service
	baseURL string
	logger  *slog.Logger
}

// Option customises the service.
type Option func(*Service)

// WithFS replaces the storage service.
func WithFS(fs afs.Service) Option {
	return func(s *Service) { s.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a dump service writing under baseURL.
func New(baseURL string, opts ...Option) *Service {
	s := &Service{baseURL: baseURL, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	s.baseURL = url.Normalize(baseURL, file.Scheme)
	return s
}

// Dump writes every mapped page of space, in area order, to
// <baseURL>/<taskID>-<unixnano>.dmp and returns the URL.
func (s *Service) Dump(ctx context.Context, taskID int, space *mm.AddressSpace) (string, error) {
	areas := space.Areas()
	var buf bytes.Buffer
	for _, area := range areas {
		for vpn := area.Start; vpn < area.End; vpn++ {
			page, ok := space.Page(vpn)
			if !ok {
				return "", fmt.Errorf("dump task %d: page %s: %w", taskID, vpn.Addr(), mm.ErrNotMapped)
			}
			buf.Write(page)
		}
	}
	URL := url.Join(s.baseURL, fmt.Sprintf("%d-%d.dmp", taskID, clock.Now().UnixNano()))
	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(buf.Bytes())); err != nil {
		return "", fmt.Errorf("failed to upload dump %s: %w", URL, err)
	}
	s.logger.Info("memory dump written", "task", taskID, "url", URL, "areas", len(areas), "bytes", buf.Len(), "pages", buf.Len()/amm.PageSize)
	return URL, nil
}
