// AngelaMos | 2026
// main_test.go

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrourbano/farmdash/internal/dashboard"
)

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()

	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"keys", "generate"},
		{"sessions", "prune"},
		{"stats"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, strings.Join(path, " "))
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestKeysGenerate(t *testing.T) {
	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"keys", "generate", "--private", priv, "--public", pub})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), priv)

	for _, p := range []string{priv, pub} {
		data, err := os.ReadFile(p)
		require.NoError(t, err)
		assert.Contains(t, string(data), "-----BEGIN")
	}
}

func TestRenderTables(t *testing.T) {
	var out bytes.Buffer

	renderSummary(&out, &dashboard.Summary{TotalPlots: 6, CriticalAlerts: 2})
	renderSensorStatus(&out, map[string]dashboard.TypeStatus{
		"temperatura": {Total: 2, Active: 2},
		"humedad":     {Total: 3, Active: 1, Maintenance: 2},
	})

	text := out.String()
	assert.Contains(t, text, "Parcelas")
	assert.Contains(t, text, "MANTENIMIENTO")
	assert.Less(t, strings.Index(text, "humedad"), strings.Index(text, "temperatura"))
}
