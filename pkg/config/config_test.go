package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxo-ai/infinite-scroll/pkg/config"
	"github.com/luxo-ai/infinite-scroll/pkg/keys"
	"github.com/luxo-ai/infinite-scroll/pkg/source"
	"github.com/luxo-ai/infinite-scroll/pkg/window"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()

	assert.Equal(t, config.APIVersion, cfg.APIVersion)
	assert.Equal(t, config.Kind, cfg.Kind)
	assert.Equal(t, window.Config{PageSize: 5, ItemHeight: 4, Gap: 1}, cfg.Pager.Window())
	assert.Equal(t, source.KindRange, cfg.Source.Kind)
	require.NotNil(t, cfg.Source.Length)
	assert.Equal(t, source.DefaultLength, *cfg.Source.Length)
	assert.Equal(t, "auto", cfg.UI.Theme)
	require.NoError(t, cfg.Validate())
}

func TestPager_Window(t *testing.T) {
	t.Parallel()

	three := 3
	zero := 0

	tcs := map[string]struct {
		pager *config.Pager
		want  window.Config
	}{
		"nil": {
			want: window.Config{PageSize: 5, ItemHeight: 4, Gap: 1},
		},
		"empty": {
			pager: &config.Pager{},
			want:  window.Config{PageSize: 5, ItemHeight: 4, Gap: 1},
		},
		"partial": {
			pager: &config.Pager{PageSize: &three, Gap: &zero},
			want:  window.Config{PageSize: 3, ItemHeight: 4, Gap: 0},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.pager.Window())
		})
	}
}

func TestConfig_EnsureDefaults(t *testing.T) {
	t.Parallel()

	ten := 10
	cfg := &config.Config{
		Pager:  &config.Pager{PageSize: &ten},
		Source: &source.Spec{Kind: source.KindLines, Path: "items.txt"},
	}
	cfg.EnsureDefaults()

	assert.Equal(t, window.Config{PageSize: 10, ItemHeight: 4, Gap: 1}, cfg.Pager.Window())
	assert.Equal(t, "items.txt", cfg.Source.Path)
	assert.Equal(t, source.DefaultTable, cfg.Source.Table)
	require.NotNil(t, cfg.UI)
	require.NotNil(t, cfg.UI.KeyBinds)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	zero := 0
	cfg := config.NewConfig()
	cfg.Pager.PageSize = &zero
	cfg.Source.Kind = source.KindSQLite

	err := cfg.Validate()
	require.ErrorIs(t, err, window.ErrInvalidConfig)
	require.ErrorIs(t, err, source.ErrInvalidSpec)
	assert.Contains(t, err.Error(), "error at $.pager")
	assert.Contains(t, err.Error(), "error at $.source")
}

func TestConfigLoader_ValidateAndLoad(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		check     func(t *testing.T, cfg *config.Config)
		input     string
		errMsg    string
		loadErr   error
		wantErr   bool
		wantLoadE bool
	}{
		"minimal": {
			input: `apiVersion: infscroll.luxo.ai/v1beta1
kind: Configuration
`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, window.Config{PageSize: 5, ItemHeight: 4, Gap: 1}, cfg.Pager.Window())
				assert.Equal(t, source.KindRange, cfg.Source.Kind)
			},
		},
		"full": {
			input: `apiVersion: infscroll.luxo.ai/v1beta1
kind: Configuration
pager:
  pageSize: 10
  itemHeight: 2
  gap: 0
source:
  kind: lines
  path: /tmp/items.txt
ui:
  theme: monokai
  mouse: false
  keybinds:
    next:
      keys:
        - code: tab
`,
			check: func(t *testing.T, cfg *config.Config) {
				t.Helper()
				assert.Equal(t, window.Config{PageSize: 10, ItemHeight: 2, Gap: 0}, cfg.Pager.Window())
				assert.Equal(t, source.KindLines, cfg.Source.Kind)
				assert.Equal(t, "/tmp/items.txt", cfg.Source.Path)
				assert.Equal(t, "monokai", cfg.UI.Theme)
				assert.False(t, cfg.UI.MouseEnabled())
				assert.True(t, cfg.UI.KeyBinds.Next.Match("tab"))
				assert.Equal(t, "next page", cfg.UI.KeyBinds.Next.Description)
			},
		},
		"invalid yaml": {
			input: `apiVersion: infscroll.luxo.ai/v1beta1
kind: Configuration
invalid: [unclosed
`,
			wantErr:   true,
			wantLoadE: true,
			errMsg:    "sequence end token ']' not found",
		},
		"missing required fields": {
			input: `pager:
  pageSize: 3
`,
			wantErr: true,
			errMsg:  "missing properties 'apiVersion', 'kind'",
		},
		"unknown field": {
			input: `apiVersion: infscroll.luxo.ai/v1beta1
kind: Configuration
pager:
  pageSze: 3
`,
			wantErr: true,
			errMsg:  "pageSze",
		},
		"page size below minimum": {
			input: `apiVersion: infscroll.luxo.ai/v1beta1
kind: Configuration
pager:
  pageSize: 0
`,
			wantErr:   true,
			wantLoadE: true,
			errMsg:    "$.pager.pageSize",
			loadErr:   window.ErrInvalidConfig,
		},
		"wrong api version": {
			input: `apiVersion: v1
kind: Configuration
`,
			wantErr: true,
			errMsg:  "$.apiVersion",
		},
		"lines source without path": {
			input: `apiVersion: infscroll.luxo.ai/v1beta1
kind: Configuration
source:
  kind: lines
`,
			wantLoadE: true,
			loadErr:   source.ErrInvalidSpec,
		},
		"duplicate key binding": {
			input: `apiVersion: infscroll.luxo.ai/v1beta1
kind: Configuration
ui:
  keybinds:
    next:
      keys:
        - code: q
`,
			wantLoadE: true,
			loadErr:   keys.ErrDuplicateKey,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewConfigLoaderFromBytes([]byte(tc.input))

			err := cl.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
			} else {
				require.NoError(t, err)
			}

			cfg, err := cl.Load()
			if tc.wantLoadE {
				require.Error(t, err)
				assert.Nil(t, cfg)

				if tc.loadErr != nil {
					require.ErrorIs(t, err, tc.loadErr)
				}

				return
			}

			if tc.wantErr {
				return
			}

			require.NoError(t, err)
			assert.Equal(t, config.APIVersion, cfg.APIVersion)
			assert.Equal(t, config.Kind, cfg.Kind)

			if tc.check != nil {
				tc.check(t, cfg)
			}
		})
	}
}

func TestConfigLoader_LoadEmpty(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		data []byte
	}{
		"nil":        {data: nil},
		"empty":      {data: []byte{}},
		"whitespace": {data: []byte("\n  \n\t\n")},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl := config.NewConfigLoaderFromBytes(tc.data)
			require.NoError(t, cl.Validate())

			cfg, err := cl.Load()
			require.NoError(t, err)
			assert.Equal(t, window.Config{PageSize: 5, ItemHeight: 4, Gap: 1}, cfg.Pager.Window())
		})
	}
}

type rejectAll struct{}

func (rejectAll) ValidateBytes([]byte) error {
	return assert.AnError
}

func TestWithConfigValidator(t *testing.T) {
	t.Parallel()

	cl := config.NewConfigLoaderFromBytes([]byte("kind: Configuration\n"),
		config.WithConfigValidator(rejectAll{}))

	require.ErrorIs(t, cl.Validate(), assert.AnError)
}

func TestNewConfigLoaderFromFile(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setupPath func(t *testing.T) string
		errMsg    string
		wantErr   bool
	}{
		"valid file": {
			setupPath: func(t *testing.T) string {
				t.Helper()
				path := filepath.Join(t.TempDir(), "config.yaml")
				err := os.WriteFile(path, []byte("apiVersion: infscroll.luxo.ai/v1beta1\nkind: Configuration\n"), 0o600)
				require.NoError(t, err)

				return path
			},
		},
		"missing file": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "missing.yaml")
			},
			wantErr: true,
			errMsg:  "stat file",
		},
		"directory": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			wantErr: true,
			errMsg:  "path is a directory",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cl, err := config.NewConfigLoaderFromFile(tc.setupPath(t))
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)
				assert.Nil(t, cl)

				return
			}

			require.NoError(t, err)
			require.NoError(t, cl.Validate())
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		setupPath  func(t *testing.T) string
		errMsg     string
		force      bool
		wantErr    bool
		wantBackup bool
		keepsOld   bool
	}{
		"new file": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "config.yaml")
			},
		},
		"existing file": {
			setupPath: func(t *testing.T) string {
				t.Helper()
				path := filepath.Join(t.TempDir(), "config.yaml")
				err := os.WriteFile(path, []byte("existing"), 0o600)
				require.NoError(t, err)

				return path
			},
			keepsOld: true,
		},
		"create parent directories": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return filepath.Join(t.TempDir(), "nested", "deep", "config.yaml")
			},
		},
		"path is directory": {
			setupPath: func(t *testing.T) string {
				t.Helper()

				return t.TempDir()
			},
			wantErr: true,
			errMsg:  "path is a directory",
		},
		"force existing file creates backup": {
			setupPath: func(t *testing.T) string {
				t.Helper()
				path := filepath.Join(t.TempDir(), "config.yaml")
				err := os.WriteFile(path, []byte("existing"), 0o600)
				require.NoError(t, err)

				return path
			},
			force:      true,
			wantBackup: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := tc.setupPath(t)

			err := config.WriteDefaultConfig(path, tc.force)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.errMsg)

				return
			}

			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)

			if tc.keepsOld {
				assert.Equal(t, "existing", string(data))
			} else {
				assert.True(t, strings.HasPrefix(string(data), "# yaml-language-server: $schema="+config.SchemaFile))
			}

			_, err = os.Stat(filepath.Join(filepath.Dir(path), config.SchemaFile))
			require.NoError(t, err)

			if tc.wantBackup {
				matches, err := filepath.Glob(filepath.Join(filepath.Dir(path), "config.yaml.*.old"))
				require.NoError(t, err)
				assert.Len(t, matches, 1)
			}
		})
	}
}

func TestDefaultConfigYAMLIsValid(t *testing.T) {
	t.Parallel()

	b, err := config.NewConfig().YAML()
	require.NoError(t, err)

	cl := config.NewConfigLoaderFromBytes(b)
	require.NoError(t, cl.Validate())

	cfg, err := cl.Load()
	require.NoError(t, err)
	assert.Equal(t, config.NewConfig(), cfg)
}

func TestSchema(t *testing.T) {
	t.Parallel()

	b, err := config.Schema()
	require.NoError(t, err)

	var schema struct {
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}

	require.NoError(t, json.Unmarshal(b, &schema))
	assert.Contains(t, schema.Properties, "pager")
	assert.Contains(t, schema.Properties, "source")
	assert.Contains(t, schema.Properties, "ui")
	assert.ElementsMatch(t, []string{"apiVersion", "kind"}, schema.Required)

	v, err := config.DefaultValidator()
	require.NoError(t, err)
	assert.NotNil(t, v)
}

func TestGetPath(t *testing.T) {
	t.Parallel()

	path := config.GetPath()
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, filepath.Join(config.AppName, "config.yaml"),
		filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
