package download

import (
	"net/http"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"
)

// NewDownloaderWithClient exports newDownloaderWithClient for testing.
func NewDownloaderWithClient(logger ports.Logger, client *http.Client) *Downloader {
	return newDownloaderWithClient(logger, client)
}
