// Package download implements the Downloader port over HTTP.
package download

import (
	"context"
	"fmt"
	"net/http"
	"time"

	fsutil "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/fs"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/domain"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
	"go.trai.ch/zerr"
)

const httpClientTimeout = 10 * time.Minute

var _ ports.Downloader = (*Downloader)(nil)

// Downloader implements ports.Downloader using net/http.
type Downloader struct {
	logger     ports.Logger
	httpClient *http.Client
}

// NewDownloader creates a new Downloader.
func NewDownloader(logger ports.Logger) *Downloader {
	return newDownloaderWithClient(logger, &http.Client{
		Timeout: httpClientTimeout,
	})
}

// newDownloaderWithClient creates a Downloader with a custom http client (used for testing).
func newDownloaderWithClient(logger ports.Logger, client *http.Client) *Downloader {
	return &Downloader{
		logger:     logger,
		httpClient: client,
	}
}

// Download fetches url into dst. The body is streamed to a temp file in the
// destination directory which is renamed onto dst once complete.
func (d *Downloader) Download(ctx context.Context, url, dst string) error {
	d.logger.Info(fmt.Sprintf("downloading %s to %s", url, dst))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrNetwork.Error()), "url", url)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrNetwork.Error()), "url", url)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := zerr.With(domain.ErrNetwork, "status_code", resp.StatusCode)
		return zerr.With(statusErr, "url", url)
	}

	if err := fsutil.WriteAtomic(dst, resp.Body); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrNetwork.Error()), "url", url)
	}
	return nil
}
