package server

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/htlc/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempHome(t *testing.T) (string, func()) {
	t.Helper()
	home, err := ioutil.TempDir("", "htlcd")
	require.NoError(t, err)
	return home, func() { os.RemoveAll(home) }
}

func TestReadConfig(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	conf := "bind = \"tcp://127.0.0.1:1000\"\nlog_level = \"error\"\ndb = \"/tmp/from-file\"\n"
	require.NoError(t, ioutil.WriteFile(filepath.Join(home, ConfigFile), []byte(conf), 0600))

	require.NoError(t, os.Setenv("HTLCD_LOG_LEVEL", "debug"))
	defer os.Unsetenv("HTLCD_LOG_LEVEL")

	root, v := NewRootCmd("test", "test", home)
	require.NoError(t, root.PersistentFlags().Parse([]string{"--debug", "--db", MemoryDB}))
	require.NoError(t, readConfigFile(v))

	cfg, err := ReadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, home, cfg.Home)
	// config file
	assert.Equal(t, "tcp://127.0.0.1:1000", cfg.Bind)
	// environment wins over the config file
	assert.Equal(t, "debug", cfg.LogLevel)
	// flags win over everything
	assert.Equal(t, MemoryDB, cfg.DB)
	assert.True(t, cfg.Debug)
}

func TestReadConfigDefaults(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	_, v := NewRootCmd("test", "test", home)
	require.NoError(t, readConfigFile(v))
	cfg, err := ReadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultBind, cfg.Bind)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, filepath.Join(home, "data", "state.db"), cfg.DB)
	assert.False(t, cfg.Debug)
}

func TestWriteConfig(t *testing.T) {
	home, cleanup := tempHome(t)
	defer cleanup()

	root, v := NewRootCmd("test", "test", filepath.Join(home, "nested"))
	require.NoError(t, root.PersistentFlags().Parse([]string{"--bind", "tcp://0.0.0.0:7"}))
	path, err := WriteConfig(v)
	require.NoError(t, err)

	raw, err := ioutil.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "tcp://0.0.0.0:7")
	assert.NotContains(t, string(raw), "home")
}

func TestNewLogger(t *testing.T) {
	cases := map[string]struct {
		level    string
		wantErr  *errors.Error
		wantLogs []string
		noLogs   []string
	}{
		"module levels": {
			level:    "main:debug,*:error",
			wantLogs: []string{"main-debug", "other-error"},
			noLogs:   []string{"other-info"},
		},
		"global level": {
			level:    "info",
			wantLogs: []string{"main-info", "other-info"},
			noLogs:   []string{"main-debug"},
		},
		"unlisted modules log errors": {
			level:    "main:debug",
			wantLogs: []string{"main-debug", "main-info", "other-error"},
			noLogs:   []string{"other-info"},
		},
		"default level": {
			level:    DefaultLogLevel,
			wantLogs: []string{"main-info", "other-error"},
			noLogs:   []string{"main-debug", "other-info"},
		},
		"malformed pair": {
			level:   "main:info:debug",
			wantErr: errors.ErrInput,
		},
		"unknown module level": {
			level:   "main:loud",
			wantErr: errors.ErrInput,
		},
		"unknown global level": {
			level:   "*:nope",
			wantErr: errors.ErrInput,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			logger, err := NewLogger(&buf, tc.level)
			if tc.wantErr != nil {
				require.True(t, tc.wantErr.Is(err), "got %+v", err)
				return
			}
			require.NoError(t, err)

			mainLog := logger.With("module", "main")
			other := logger.With("module", "other")
			mainLog.Debug("main-debug")
			mainLog.Info("main-info")
			other.Info("other-info")
			other.Error("other-error")

			out := buf.String()
			for _, s := range tc.wantLogs {
				assert.True(t, strings.Contains(out, s), "missing %q in %s", s, out)
			}
			for _, s := range tc.noLogs {
				assert.False(t, strings.Contains(out, s), "unexpected %q in %s", s, out)
			}
		})
	}
}
