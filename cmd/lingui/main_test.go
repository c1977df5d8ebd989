package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testSetup(t *testing.T) string {
	return CreateSetup(t, map[string]string{
		`lingui.yaml`: `sourceLocale: en
locales: [en, cs]
catalogs:
  - path: locales/{locale}.po
    template: locales/messages.pot
compile:
  outDir: compiled
`,
		`extracted/app.json`: `[
  {"message": "Hello {name}", "origins": [{"file": "src/App.js", "line": 3}]},
  {"message": "{count, plural, one {# file} other {# files}}",
   "origins": [{"file": "src/App.js", "line": 7}]}
]`,
		`extracted/nav.json`: `[
  {"id": "nav.home", "message": "Home", "origins": [{"file": "src/Nav.js", "line": 1}]}
]`,
	})
}

func TestMergeCompile(t *testing.T) {
	t.Parallel()

	root := testSetup(t)
	conf := filepath.Join(root, "lingui.yaml")

	err := run([]string{
		"lingui", "--quiet", "--config", conf, "merge",
		"--next", filepath.Join(root, "extracted", "app.json"),
		"--next", filepath.Join(root, "extracted", "nav.json"),
	})
	require.NoError(t, err)
	for _, name := range []string{"en.po", "cs.po", "messages.pot"} {
		require.FileExists(t, filepath.Join(root, "locales", name))
	}

	err = run([]string{"lingui", "-q", "-c", conf, "compile", "--format", "go"})
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(root, "compiled", "en.go"))
	require.FileExists(t, filepath.Join(root, "compiled", "cs.go"))

	err = run([]string{"lingui", "-q", "-c", conf, "compile", "--format", "xml"})
	require.ErrorContains(t, err, "compile format must be json or go")
}

func TestConvert(t *testing.T) {
	t.Parallel()

	root := testSetup(t)
	po := filepath.Join(root, "nav.po")
	err := run([]string{
		"lingui", "-q", "convert",
		"--in", filepath.Join(root, "extracted", "nav.json"),
		"--out", po, "--locale", "en",
	})
	require.NoError(t, err)

	b, err := os.ReadFile(po)
	require.NoError(t, err)
	require.Contains(t, string(b), "#. lingui-explicit-id\n#. lingui:icu=Home\n#: src/Nav.js:1\nmsgid \"nav.home\"\n")

	out := filepath.Join(root, "nav.json")
	err = run([]string{"lingui", "-q", "convert", "--in", po, "--out", out})
	require.NoError(t, err)
	require.FileExists(t, out)
}

func TestErr(t *testing.T) {
	t.Parallel()

	f := func(t *testing.T, expect error, args ...string) {
		t.Helper()
		err := run(append([]string{"lingui"}, args...))
		require.ErrorIs(t, err, expect)
	}

	f(t, ErrNoCommand)
	f(t, ErrUnknownCommand, "extract")
	f(t, ErrLogFormat, "--log-format", "xml", "convert", "--in", "a.po", "--out", "b.json")
	f(t, os.ErrNotExist, "-q", "--config", filepath.Join(t.TempDir(), "lingui.toml"),
		"compile")
}

func CreateSetup(t *testing.T, fileMap map[string]string) string {
	t.Helper()
	root := t.TempDir()

	for path, content := range fileMap {
		fullPath := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
			t.Fatalf("failed to create directories for %s: %v", fullPath, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write file %s: %v", fullPath, err)
		}
	}

	return root
}
