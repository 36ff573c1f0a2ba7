/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/cfx/internal/logger"
)

func TestSetup_JSONToWriter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l, cleanup, err := logger.Setup(logger.Config{Level: "debug", Output: &buf})
	require.NoError(t, err)
	defer func() { require.NoError(t, cleanup()) }()

	l.Debug("compose.hit", "name", "App::Foo")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "compose.hit", rec["msg"])
	assert.Equal(t, "App::Foo", rec["name"])
	assert.Equal(t, "DEBUG", rec["level"])
	assert.True(t, strings.HasSuffix(rec["time"].(string), "Z"))
}

func TestSetup_TextAndLevelFilter(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l, _, err := logger.Setup(logger.Config{Level: "warn", Format: "text", Output: &buf})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "msg=shown")
}

func TestSetup_File(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "cfx.log")
	l, cleanup, err := logger.Setup(logger.Config{Path: path})
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}

func TestSetup_Errors(t *testing.T) {
	_, _, err := logger.Setup(logger.Config{Level: "loud"})
	assert.Error(t, err)
	_, _, err = logger.Setup(logger.Config{Format: "xml", Output: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := logger.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}
