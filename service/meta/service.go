// Package meta loads declarative resources such as the kernel
// configuration. Resources are fetched through afs, so any afs URL scheme
// works, ${env.KEY} expressions are expanded and the result is decoded as
// YAML (which also accepts JSON).
package meta

import (
	"context"
	"fmt"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads resources relative to a base URL.
type Service struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
	lookup  func(string) string
}

// New creates a meta service. options are passed to every download.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, options: options, lookup: os.Getenv}
}

// URL resolves location against the base URL.
func (s *Service) URL(location string) string {
	if s.baseURL == "" || !url.IsRelative(location) {
		return location
	}
	return url.Join(s.baseURL, location)
}

// Load downloads location and decodes it into target.
func (s *Service) Load(ctx context.Context, location string, target interface{}) error {
	URL := s.URL(location)
	data, err := s.fs.DownloadWithURL(ctx, URL, s.options...)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", URL, err)
	}
	expanded := expandEnvExpr(string(data), s.lookup)
	if err = yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to decode %s: %w", URL, err)
	}
	return nil
}
