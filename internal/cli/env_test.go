package cli_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxo-ai/infinite-scroll/internal/cli"
)

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		envVars       map[string]string
		wantLogLevel  string
		wantLogFormat string
		wantPageSize  int
		args          []string
		wantChanged   bool
	}{
		"environment variables are bound when no args provided": {
			envVars: map[string]string{
				"INFSCROLL_LOG_LEVEL":  "debug",
				"INFSCROLL_LOG_FORMAT": "json",
				"INFSCROLL_PAGE_SIZE":  "7",
			},
			args:          []string{},
			wantLogLevel:  "debug",
			wantLogFormat: "json",
			wantPageSize:  7,
			wantChanged:   true,
		},
		"command line args take precedence over environment variables": {
			envVars: map[string]string{
				"INFSCROLL_LOG_LEVEL":  "debug",
				"INFSCROLL_LOG_FORMAT": "json",
				"INFSCROLL_PAGE_SIZE":  "7",
			},
			args:          []string{"--log-level", "error", "--log-format", "text", "--page-size", "3"},
			wantLogLevel:  "error",
			wantLogFormat: "text",
			wantPageSize:  3,
			wantChanged:   true,
		},
		"partial environment variable override": {
			envVars: map[string]string{
				"INFSCROLL_LOG_LEVEL": "warn",
			},
			args:          []string{"--log-format", "json"},
			wantLogLevel:  "warn",
			wantLogFormat: "json",
			wantPageSize:  5,
		},
		"no environment variables uses defaults": {
			envVars:       map[string]string{},
			args:          []string{},
			wantLogLevel:  "info",
			wantLogFormat: "text",
			wantPageSize:  5,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for key, val := range tc.envVars {
				t.Setenv(key, val)
			}

			cmd := cli.NewRootCmd()
			cmd.SetArgs(tc.args)

			err := cmd.ParseFlags(tc.args)
			require.NoError(t, err)

			logLevel, err := cmd.Flags().GetString("log-level")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogLevel, logLevel)

			logFormat, err := cmd.Flags().GetString("log-format")
			require.NoError(t, err)
			assert.Equal(t, tc.wantLogFormat, logFormat)

			pageSize, err := cmd.Flags().GetInt("page-size")
			require.NoError(t, err)
			assert.Equal(t, tc.wantPageSize, pageSize)
			assert.Equal(t, tc.wantChanged, cmd.Flags().Changed("page-size"))
		})
	}
}

func TestEnvironmentVariableUsageUpdate(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCmd()

	logLevelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, logLevelFlag)
	assert.Contains(t, logLevelFlag.Usage, "$INFSCROLL_LOG_LEVEL")

	configFlag := cmd.Flags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Contains(t, configFlag.Usage, "$INFSCROLL_CONFIG")

	pagesFlag := cmd.Flags().Lookup("pages")
	require.NotNil(t, pagesFlag)
	assert.Contains(t, pagesFlag.Usage, "$INFSCROLL_PAGES")
}
