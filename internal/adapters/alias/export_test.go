package alias

import "github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports"

// NewPublisherWithProbe exports newPublisherWithProbe for testing.
func NewPublisherWithProbe(logger ports.Logger, probe func(dir string) error) *Publisher {
	return newPublisherWithProbe(logger, probe)
}
