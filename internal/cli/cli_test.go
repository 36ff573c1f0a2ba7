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

package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testManifest = `
units:
  - name: Roles::Named
    attributes:
      - name: name
  - name: Roles::Counter
    template: true
    params: [name]
    attributes:
      - name: "${name}_count"
        default: 0
`

// workspace lays out a catalog, a config file and two request files that
// differ only in item order.
func workspace(t *testing.T, backend string) (cfgPath, reqA, reqB string) {
	t.Helper()
	dir := t.TempDir()
	units := filepath.Join(dir, "units")
	require.NoError(t, os.MkdirAll(units, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(units, "roles.yaml"), []byte(testManifest), 0o644))

	cfg := "basename: App\n" +
		"catalog: " + units + "\n" +
		"prefixes:\n  - prefix: \"\"\n    expansion: \"Roles::\"\n" +
		"registry:\n  backend: " + backend + "\n  path: " + filepath.Join(dir, "journal.db") + "\n" +
		"log:\n  level: error\n"
	cfgPath = filepath.Join(dir, "cfx.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	reqA = filepath.Join(dir, "a.yaml")
	require.NoError(t, os.WriteFile(reqA, []byte("- Named\n- unit: Counter\n  moniker: =Hits\n  params: {name: hits}\n"), 0o644))
	reqB = filepath.Join(dir, "b.yaml")
	require.NoError(t, os.WriteFile(reqB, []byte("- unit: Counter\n  moniker: =Hits\n  params: {name: hits}\n- Named\n"), 0o644))
	return cfgPath, reqA, reqB
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompose_PrintsIdentifiers(t *testing.T) {
	cfg, a, b := workspace(t, backendMemory)

	out, err := run(t, "compose", "--config", cfg, "-f", a, "-f", b)
	require.NoError(t, err)
	// b is a permutation of a and reuses its type.
	assert.Equal(t, "App::Named::Hits\nApp::Named::Hits\n", out)
}

func TestCompose_JSON(t *testing.T) {
	cfg, a, _ := workspace(t, backendMemory)

	out, err := run(t, "compose", "--config", cfg, "--json", "-f", a)
	require.NoError(t, err)

	var results []composeResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "App::Named::Hits", results[0].Name)
	assert.Equal(t, []string{"Roles::Counter[=Hits]", "Roles::Named"}, results[0].Units)
	assert.Equal(t, "=Hits : { name => hits }; Named", string(results[0].Key))
}

func TestCompose_RequiresFile(t *testing.T) {
	cfg, _, _ := workspace(t, backendMemory)
	_, err := run(t, "compose", "--config", cfg)
	assert.Error(t, err)
}

func TestCompose_UnknownUnit(t *testing.T) {
	cfg, _, _ := workspace(t, backendMemory)
	bad := filepath.Join(filepath.Dir(cfg), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("- Missing\n"), 0o644))

	_, err := run(t, "compose", "--config", cfg, "-f", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Roles::Missing")
}

func TestKey_OrderInsensitive(t *testing.T) {
	_, a, b := workspace(t, backendMemory)

	out, err := run(t, "key", "-f", a, "-f", b)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, lines[0], lines[1])
}

func TestKnown_ListsEntries(t *testing.T) {
	cfg, a, b := workspace(t, backendMemory)

	out, err := run(t, "known", "--config", cfg, "-f", a, "-f", b)
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Equal(t, 1, strings.Count(out, "App::Named::Hits"))
}

func TestHistory_AcrossRuns(t *testing.T) {
	cfg, a, _ := workspace(t, backendSQLite)

	_, err := run(t, "compose", "--config", cfg, "-f", a)
	require.NoError(t, err)
	// A new process starts with an empty runtime, so the name is reused.
	_, err = run(t, "compose", "--config", cfg, "-f", a)
	require.NoError(t, err)

	out, err := run(t, "history", "--config", cfg, "--json")
	require.NoError(t, err)
	var hist []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &hist))
	require.Len(t, hist, 2)
	assert.NotEqual(t, hist[0]["session"], hist[1]["session"])
	assert.Equal(t, "App::Named::Hits", hist[0]["name"])
}

func TestUnits_ListsCatalog(t *testing.T) {
	cfg, _, _ := workspace(t, backendMemory)

	out, err := run(t, "units", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Roles::Counter (template)\nRoles::Named\n", out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cfx v"+Version)
	assert.Contains(t, out, modulePath)
}

func TestLoadSettings_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	s, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "App", s.Basename)
	assert.Equal(t, backendMemory, s.Registry.Backend)
	assert.True(t, s.LiteralMarker)
	assert.False(t, s.Tracing.Enabled)
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CFX_BASENAME", "Env::App")
	t.Setenv("CFX_REGISTRY_BACKEND", backendSQLite)

	s, err := loadSettings("")
	require.NoError(t, err)
	assert.Equal(t, "Env::App", s.Basename)
	assert.Equal(t, backendSQLite, s.Registry.Backend)
}

func TestLoadSettings_ExplicitMissingFile(t *testing.T) {
	_, err := loadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCompositorConfig(t *testing.T) {
	s := settings{
		Basename:      "App",
		LiteralMarker: true,
		Prefixes:      []prefixRule{{Prefix: "R::", Expansion: "Roles::"}},
	}
	cfg, err := s.compositorConfig()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"=": "", "R::": "Roles::"}, cfg.Prefixes)

	s.Basename = "not valid"
	_, err = s.compositorConfig()
	assert.Error(t, err)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
