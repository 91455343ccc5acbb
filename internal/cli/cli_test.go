package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/confskema/i18n"
	"github.com/reoring/confskema/internal/cli"
)

const schemaYAML = `
server:
  port:
    type: uint16
    min: 1024
  host:
    type: string
    default: localhost
name: str
tags:
  type: array
  maxlen: 3
  subtype: str
  default: []
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { i18n.SetLanguage("en") })
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCheck_ReportsEachFile(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)
	good := writeFile(t, dir, "good.json", `{"server": {"port": 8080}, "name": "api"}`)
	bad := writeFile(t, dir, "bad.toml", "name = \"api\"\n[server]\nport = 80\n")

	out, err := run(t, "check", "-s", schema, good, bad)
	require.ErrorIs(t, err, cli.ErrCheckFailed)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, good+": ok", lines[0])
	assert.Contains(t, lines[1], bad+": FAIL: server.port: value must be at least 1024")
}

func TestCheck_PrintAppliesDefaultsInSchemaOrder(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)
	cfg := writeFile(t, dir, "app.yaml", "name: api\nextra: ignored\nserver:\n  port: 8080\n")

	out, err := run(t, "check", "--print", "-s", schema, cfg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"server":{"port":8080,"host":"localhost"},"name":"api","tags":[]}`, out)
	assert.Less(t, strings.Index(out, `"server"`), strings.Index(out, `"name"`))
	assert.Less(t, strings.Index(out, `"port"`), strings.Index(out, `"host"`))
}

func TestCheck_SchemaErrorFailsBeforeConfigs(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `{"a": {"type": "quaternion"}}`)
	cfg := writeFile(t, dir, "app.json", `{"a": 1}`)

	out, err := run(t, "check", "-s", schema, cfg)
	require.Error(t, err)
	assert.NotErrorIs(t, err, cli.ErrCheckFailed)
	assert.Contains(t, err.Error(), "unknown type")
	assert.Empty(t, out)
}

func TestCheck_Japanese(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)
	cfg := writeFile(t, dir, "app.yaml", "server:\n  port: 8080\n")

	out, err := run(t, "--lang", "ja", "check", "-s", schema, cfg)
	require.ErrorIs(t, err, cli.ErrCheckFailed)
	assert.Contains(t, out, "name: 必須フィールドがありません")
}

func TestKey(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)

	out, err := run(t, "key", "-s", schema, "server.port", "2048")
	require.NoError(t, err)
	assert.Equal(t, "2048\n", out)

	out, err = run(t, "key", "-s", schema, "name", "bare-word")
	require.NoError(t, err)
	assert.Equal(t, "\"bare-word\"\n", out)

	out, err = run(t, "key", "-s", schema, "server", `{"port": 2048}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"port":2048,"host":"localhost"}`, out)

	_, err = run(t, "key", "-s", schema, "server.port", "80")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")

	_, err = run(t, "key", "-s", schema, "server.tls", "true")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing key")
}

func TestJSONSchema(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)

	out, err := run(t, "jsonschema", "-s", schema)
	require.NoError(t, err)
	assert.Contains(t, out, `"$schema"`)
	assert.Contains(t, out, `"minimum": 1024`)
	assert.Contains(t, out, `"maximum": 65535`)
	assert.Contains(t, out, `"maxItems": 3`)
}

func TestSettingsFromEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)
	cfg := writeFile(t, dir, "app.yaml", "name: api\nserver:\n  port: 8080\n")

	t.Setenv("CONFSKEMA_LOG_FORMAT", "xml")
	_, err := run(t, "check", "-s", schema, cfg)
	require.Error(t, err)

	_, err = run(t, "--log-format", "json", "check", "-s", schema, cfg)
	require.NoError(t, err)

	_, err = run(t, "--log-format", "json", "--jobs", "0", "check", "-s", schema, cfg)
	require.Error(t, err)
}
