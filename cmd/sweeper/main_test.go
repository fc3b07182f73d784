package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-remote/internal/config"
)

func TestSetupLogging(t *testing.T) {
	for _, tt := range []struct {
		name    string
		file    bool
		withTUI bool
		silent  bool
	}{
		{"tui without log file", false, true, true},
		{"tui with log file", true, true, true},
		{"headless without log file", false, false, false},
		{"headless with log file", true, false, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			log = logrus.New()
			cfg := config.Default()
			cfg.Log.File = ""
			if tt.file {
				cfg.Log.File = filepath.Join(t.TempDir(), "sweeper.log")
			}

			require.NoError(t, setupLogging(cfg, tt.withTUI))
			if tt.silent {
				require.Equal(t, io.Discard, log.Out)
			} else {
				require.Equal(t, os.Stderr, log.Out)
			}
			require.Equal(t, logrus.InfoLevel, log.GetLevel())
		})
	}
}
