package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	main "github.com/wkanaday/mepdir/cmd/mepscrape"
	"github.com/xuri/excelize/v2"
)

const directoryHTML = `<!DOCTYPE html>
<html><body>
<div class="team-grid">
	<div class="team-member">
		<h3>Ann Lee</h3>
		<p>Controller</p>
		<p>Contact: alee@example.org</p>
	</div>
	<div class="team-member">
		<h3>Raj Patel</h3>
		<p>Engineer</p>
		<p>Phone: (302) 555-0101</p>
	</div>
</div>
</body></html>`

func newDirectoryServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/staff/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(directoryHTML))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newWorkbook(t *testing.T, dir string, sheets ...string) string {
	t.Helper()
	f := excelize.NewFile()
	for _, s := range sheets {
		_, err := f.NewSheet(s)
		require.NoError(t, err)
	}
	path := filepath.Join(dir, "state_meps.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range []string{"scrape", "run", "sites", "find", "history"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help succeeds", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		m.DBPath = filepath.Join(t.TempDir(), "runs.db")
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "scrape")
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "history")
	})

	t.Run("dry run prints records without writing", func(t *testing.T) {
		t.Parallel()

		srv := newDirectoryServer(t)
		dir := t.TempDir()
		m := main.NewMain()
		m.DBPath = filepath.Join(dir, "runs.db")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{
			"scrape", "de", "Delaware MEP", srv.URL + "/staff/",
			"--dry-run", "--delay=0s", "--csv-dir", dir,
		}, stdout, stderr)

		require.NoError(t, err, stderr.String())
		out := stdout.String()
		assert.Contains(t, out, "Ann Lee")
		assert.Contains(t, out, "alee@example.org")
		assert.Contains(t, out, "(302) 555-0101")
		assert.Contains(t, out, "dry run")
		assert.NoFileExists(t, filepath.Join(dir, "de_staff_temp.csv"))
		assert.NoFileExists(t, m.DBPath)
	})

	t.Run("scrape writes csv, workbook and archive", func(t *testing.T) {
		t.Parallel()

		srv := newDirectoryServer(t)
		dir := t.TempDir()
		workbook := newWorkbook(t, dir, "DE")
		dbPath := filepath.Join(dir, "runs.db")
		stderr := &bytes.Buffer{}

		m := main.NewMain()
		err := m.Run(context.Background(), []string{
			"--db", dbPath,
			"scrape", "DE", "Delaware MEP", srv.URL + "/staff/",
			"--delay=0s", "--workbook", workbook, "--csv-dir", dir,
		}, &bytes.Buffer{}, stderr)
		require.NoError(t, err, stderr.String())

		assert.FileExists(t, filepath.Join(dir, "de_staff_temp.csv"))

		f, err := excelize.OpenFile(workbook)
		require.NoError(t, err)
		defer f.Close()
		name, err := f.GetCellValue("DE", "A4")
		require.NoError(t, err)
		assert.Equal(t, "Ann Lee", name)
		title, err := f.GetCellValue("DE", "B5")
		require.NoError(t, err)
		assert.Equal(t, "Engineer", title)

		stdout := &bytes.Buffer{}
		err = main.NewMain().Run(context.Background(), []string{"--db", dbPath, "history", "de"}, stdout, stderr)
		require.NoError(t, err, stderr.String())
		assert.Contains(t, stdout.String(), "DE")
		assert.Contains(t, stdout.String(), "member-class")
	})

	t.Run("repeated scrape is reported unchanged", func(t *testing.T) {
		t.Parallel()

		srv := newDirectoryServer(t)
		dir := t.TempDir()
		args := []string{
			"--db", filepath.Join(dir, "runs.db"),
			"scrape", "DE", "Delaware MEP", srv.URL + "/staff/",
			"--delay=0s", "--workbook=", "--csv-dir=",
		}

		require.NoError(t, main.NewMain().Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}))

		stdout := &bytes.Buffer{}
		require.NoError(t, main.NewMain().Run(context.Background(), args, stdout, &bytes.Buffer{}))
		assert.Contains(t, stdout.String(), "unchanged")
	})

	t.Run("missing sheet fails the run", func(t *testing.T) {
		t.Parallel()

		srv := newDirectoryServer(t)
		dir := t.TempDir()
		workbook := newWorkbook(t, dir, "GA")
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{
			"--db", filepath.Join(dir, "runs.db"),
			"scrape", "DE", "Delaware MEP", srv.URL + "/staff/",
			"--delay=0s", "--workbook", workbook, "--csv-dir=",
		}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "DE")
	})

	t.Run("missing workbook is reported", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{
			"--db", filepath.Join(dir, "runs.db"),
			"scrape", "DE", "Delaware MEP", "https://example.org/staff/",
			"--workbook", filepath.Join(dir, "missing.xlsx"),
		}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("invalid listing URL fails the site", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{
			"scrape", "DE", "Delaware MEP", "not-a-url", "--dry-run",
		}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 1 sites failed")
		assert.Contains(t, stderr.String(), "invalid URL")
	})

	t.Run("sites lists the table", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		config := filepath.Join(dir, "sites.yaml")
		require.NoError(t, os.WriteFile(config, []byte(`
sites:
  - code: ga
    name: Georgia MEP
    url: https://www.example.org/about/team/
  - code: DE
    name: Delaware MEP
    url: https://www.example.com/staff/
    max_profiles: -1
`), 0644))
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--config", config, "sites"}, stdout, stderr)

		require.NoError(t, err, stderr.String())
		out := stdout.String()
		assert.Contains(t, out, "GA")
		assert.Contains(t, out, "built-in")
		assert.Contains(t, out, "Delaware MEP")
		assert.Contains(t, out, "off")
	})

	t.Run("missing site table is reported", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{
			"--config", filepath.Join(t.TempDir(), "sites.yaml"), "run",
		}, &bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "error:")
	})

	t.Run("run scrapes configured sites", func(t *testing.T) {
		t.Parallel()

		srv := newDirectoryServer(t)
		dir := t.TempDir()
		config := filepath.Join(dir, "sites.yaml")
		require.NoError(t, os.WriteFile(config, []byte(`
defaults:
  delay: 0s
sites:
  - code: DE
    name: Delaware MEP
    url: `+srv.URL+`/staff/
`), 0644))
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), []string{"--config", config, "run", "--dry-run"}, stdout, stderr)

		require.NoError(t, err, stderr.String())
		assert.Contains(t, stdout.String(), "Raj Patel")
	})
}
