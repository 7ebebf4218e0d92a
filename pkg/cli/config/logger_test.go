package config_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/releasor/pkg/cli/config"
	"github.com/m-mizutani/releasor/pkg/domain/types"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		level   string
		wantErr bool
	}{
		{level: "debug"},
		{level: "WARN"},
		{level: "Error"},
		{level: "", wantErr: true},
		{level: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			logger, err := (&config.Logger{Level: tt.level, Output: &bytes.Buffer{}}).Configure()
			if tt.wantErr {
				gt.Error(t, err)
				gt.Value(t, types.KindOf(err)).Equal(types.KindValidationFailed)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, logger == nil).Equal(false)
		})
	}
}

func TestLogger_Configure_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "warn", JSON: true, Output: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("hidden message")
	logger.Warn("shown message")
	gt.String(t, buf.String()).NotContains("hidden message")
	gt.String(t, buf.String()).Contains("shown message")
}

func TestLogger_Configure_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", Output: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("bumped version", "version", "1.0.1")
	gt.String(t, buf.String()).Contains("bumped version")
	gt.String(t, buf.String()).Contains("1.0.1")
}

func TestLogger_Flags(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		args      []string
		wantLevel string
		wantJSON  bool
	}{
		{name: "defaults", wantLevel: "info"},
		{name: "flags", args: []string{"--log-level", "debug", "--log-json"}, wantLevel: "debug", wantJSON: true},
		{
			name:      "env",
			env:       map[string]string{"RELEASOR_LOG_LEVEL": "error", "RELEASOR_LOG_JSON": "true"},
			wantLevel: "error",
			wantJSON:  true,
		},
		{
			name:      "flag overrides env",
			env:       map[string]string{"RELEASOR_LOG_LEVEL": "error"},
			args:      []string{"--log-level", "warn"},
			wantLevel: "warn",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			var logger config.Logger
			cmd := &cli.Command{
				Name:   "releasor",
				Flags:  logger.Flags(),
				Action: func(ctx context.Context, c *cli.Command) error { return nil },
			}
			gt.NoError(t, cmd.Run(context.Background(), append([]string{"releasor"}, tt.args...)))

			gt.String(t, logger.Level).Equal(tt.wantLevel)
			gt.Value(t, logger.JSON).Equal(tt.wantJSON)
		})
	}
}

func TestLogger_Configure_RedactsSecrets(t *testing.T) {
	type credentials struct {
		User  string
		Token string `masq:"secret"`
	}

	var buf bytes.Buffer
	logger, err := (&config.Logger{Level: "info", JSON: true, Output: &buf}).Configure()
	gt.NoError(t, err)

	logger.Info("credentials", "creds", credentials{User: "releasor", Token: "npm_very_secret"})

	var record map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	gt.String(t, buf.String()).Contains("releasor")
	gt.String(t, buf.String()).NotContains("npm_very_secret")
}
