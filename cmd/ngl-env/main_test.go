package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/app"
	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/core/ports/mocks"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newApp(ctrl *gomock.Controller, loader *mocks.MockConfigLoader, logger *mocks.MockLogger) *app.App {
	return app.New(
		loader,
		mocks.NewMockEnvironment(ctrl),
		nil,
		mocks.NewMockExecutor(ctrl),
		mocks.NewMockHasher(ctrl),
		mocks.NewMockFetchStore(ctrl),
		logger,
	)
}

// TestRun_Success verifies that the run function returns 0 when the command succeeds.
func TestRun_Success(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLogger := mocks.NewMockLogger(ctrl)
	mockTelemetry := mocks.NewMockTelemetry(ctrl)
	mockTelemetry.EXPECT().Close().Return(nil)

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return app.NewComponents(newApp(ctrl, mocks.NewMockConfigLoader(ctrl), mockLogger), mockLogger, mockTelemetry), func() {}, nil
	}

	stdout := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, stdout, new(bytes.Buffer), provider)
	assert.Equal(t, 0, exitCode)
	assert.Contains(t, stdout.String(), "ngl-env version")
}

// TestRun_InitializationError verifies that run returns 1 when component initialization fails.
func TestRun_InitializationError(t *testing.T) {
	provider := func(_ context.Context) (*app.Components, func(), error) {
		return nil, nil, errors.New("init failed")
	}

	stderr := new(bytes.Buffer)
	exitCode := run(context.Background(), []string{"version"}, new(bytes.Buffer), stderr, provider)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "Error: init failed")
}

// TestRun_ExecutionError verifies that run returns 1 and logs when the command fails.
func TestRun_ExecutionError(t *testing.T) {
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockLogger := mocks.NewMockLogger(ctrl)

	loadErr := errors.New("load failed")
	mockLoader.EXPECT().Load(gomock.Any()).Return(nil, loadErr)
	mockLogger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, loadErr)
	})

	provider := func(_ context.Context) (*app.Components, func(), error) {
		return app.NewComponents(newApp(ctrl, mockLoader, mockLogger), mockLogger, nil), func() {}, nil
	}

	exitCode := run(context.Background(), []string{"blocks", "--system", "Linux"}, new(bytes.Buffer), new(bytes.Buffer), provider)
	assert.Equal(t, 1, exitCode)
}
