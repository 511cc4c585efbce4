package logger_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/rlavarec-gpsw/gopro-lib-node.gl/internal/adapters/logger"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler_Handle_Levels(t *testing.T) {
	tests := []struct {
		name       string
		level      slog.Level
		msg        string
		subject    string
		goldenName string
	}{
		{"info level", slog.LevelInfo, "information message", "", "handler_info"},
		{"warn level", slog.LevelWarn, "warning message", "", "handler_warn"},
		{"error level", slog.LevelError, "error message", "", "handler_error"},
		{"info with subject", slog.LevelInfo, "already cloned in external/ngfx", "ngfx", "handler_subject_info"},
		{"warn with subject", slog.LevelWarn, "checksum mismatch, downloading again", "sxplayer", "handler_subject_warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NO_COLOR", "1")

			buf := &bytes.Buffer{}
			lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
			var attrs []any
			if tt.subject != "" {
				attrs = append(attrs, logger.SubjectKey, tt.subject)
			}
			lg.Log(t.Context(), tt.level, tt.msg, attrs...)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestPrettyHandler_DebugFiltered(t *testing.T) {
	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	lg.Debug("debug message")
	assert.Empty(t, buf.String())
}

func TestPrettyHandler_Attrs(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil)).WithGroup("fetch").With("dep", "sxplayer")
	lg.Info("extracting", "file", "sxplayer-9.9.0.tar.gz")

	assert.Equal(t, "extracting fetch.dep=sxplayer fetch.file=sxplayer-9.9.0.tar.gz\n", buf.String())
}

func TestPrettyHandler_SubjectPrefix(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil)).With(logger.SubjectKey, "pkgconf")
	lg.Info("extracting", "file", "pkgconf-1.7.4.tar.gz")

	assert.Equal(t, "[pkgconf] extracting file=pkgconf-1.7.4.tar.gz\n", buf.String())
}

func TestPrettyHandler_SubjectInGroupIsAttr(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := slog.New(logger.NewPrettyHandler(buf, nil)).WithGroup("block")
	lg.Info("sealed", logger.SubjectKey, "nodegl-setup")

	assert.Equal(t, "sealed block.subject=nodegl-setup\n", buf.String())
}
