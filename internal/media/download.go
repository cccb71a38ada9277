// Package media downloads the pronunciation and picture files a card
// refers to into its card directory.
package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/snonux/copywords/internal/logging"
)

// FileDownloader streams a remote file to a local path
type FileDownloader interface {
	DownloadFile(ctx context.Context, url, path string, maxBytes int64) error
}

// DownloadOptions configures media download behavior
type DownloadOptions struct {
	OverwriteExisting bool  // Whether to overwrite existing files
	MaxSoundBytes     int64 // Maximum sound file size (0 = no limit)
	MaxImageBytes     int64 // Maximum image file size (0 = no limit)
	Parallel          int   // Concurrent downloads per card
}

// DefaultDownloadOptions returns sensible defaults for media downloads
func DefaultDownloadOptions() *DownloadOptions {
	return &DownloadOptions{
		OverwriteExisting: false,
		MaxSoundBytes:     5 * 1024 * 1024, // 5MB
		MaxImageBytes:     5 * 1024 * 1024,
		Parallel:          2,
	}
}

// Request names one file to fetch into a card directory
type Request struct {
	URL      string
	FileName string
	MaxBytes int64
}

// Files are the local paths of the media of one card, empty when the card
// has no such media
type Files struct {
	Sound string
	Image string
}

// Downloader fetches card media
type Downloader struct {
	files   FileDownloader
	options *DownloadOptions
	log     *slog.Logger
}

// NewDownloader creates a new media downloader
func NewDownloader(files FileDownloader, options *DownloadOptions, log *slog.Logger) *Downloader {
	if options == nil {
		options = DefaultDownloadOptions()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Downloader{
		files:   files,
		options: options,
		log:     log,
	}
}

// DownloadCardMedia fetches the sound and the image of a card in parallel.
// Either URL may be empty.
func (d *Downloader) DownloadCardMedia(ctx context.Context, cardDir, soundURL, soundFileName, imageURL string) (*Files, error) {
	reqs := []Request{
		{URL: soundURL, FileName: soundFileName, MaxBytes: d.options.MaxSoundBytes},
		{URL: imageURL, FileName: ImageFileName(imageURL), MaxBytes: d.options.MaxImageBytes},
	}

	paths, err := d.Fetch(ctx, cardDir, reqs)
	if paths == nil {
		return nil, err
	}
	return &Files{Sound: paths[0], Image: paths[1]}, err
}

// Fetch downloads every request with a URL into dir and returns the local
// paths in request order. Existing files are kept unless OverwriteExisting
// is set. A failed request leaves its path empty without cancelling the
// others; the failures are returned joined next to the partial paths.
func (d *Downloader) Fetch(ctx context.Context, dir string, reqs []Request) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	for _, req := range reqs {
		if req.URL != "" && req.FileName == "" {
			return nil, fmt.Errorf("no file name for %s", req.URL)
		}
	}

	paths := make([]string, len(reqs))
	errs := make([]error, len(reqs))
	var g errgroup.Group
	if d.options.Parallel > 0 {
		g.SetLimit(d.options.Parallel)
	}

	for i, req := range reqs {
		if req.URL == "" {
			continue
		}

		outputPath := filepath.Join(dir, filepath.Base(req.FileName))
		paths[i] = outputPath

		if !d.options.OverwriteExisting {
			if _, err := os.Stat(outputPath); err == nil {
				d.log.Debug("media exists, skipping", "path", outputPath)
				continue
			}
		}

		g.Go(func() error {
			if err := d.files.DownloadFile(ctx, req.URL, outputPath, req.MaxBytes); err != nil {
				errs[i] = fmt.Errorf("failed to download %s: %w", req.URL, err)
				return nil
			}
			d.log.Debug("media downloaded", "url", req.URL, "path", outputPath)
			return nil
		})
	}

	g.Wait()
	for i, err := range errs {
		if err != nil {
			paths[i] = ""
		}
	}
	return paths, errors.Join(errs...)
}

// ImageFileName derives a local name from an image URL, keeping its
// extension. Unknown extensions fall back to .jpg.
func ImageFileName(imageURL string) string {
	if imageURL == "" {
		return ""
	}

	ext := ".jpg"
	if u, err := url.Parse(imageURL); err == nil {
		// Probably not a real extension when longer
		if e := strings.ToLower(path.Ext(u.Path)); e != "" && len(e) <= 5 {
			ext = e
		}
	}
	return "image" + ext
}
