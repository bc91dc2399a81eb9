package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/nomiki/pkg/extract"
)

const sampleConfig = `
data_dir: /var/lib/nomiki
bookmarks: /home/officer/bookmarks.json
extraction:
  strict_penalty: true
validator:
  mode: legacy
updater:
  rate_limit: 0.5
  timeout: 10s
  sources:
    - category: ΟΠΛΑ
      subcategory: Γενικά
      location: https://example.test/n2168-1993
      law: Ν.2168/1993
inbox:
  patterns: ["*.pdf"]
  debounce: 2s
`

func isolate(t *testing.T) {
	t.Helper()
	chdirForTest(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvValidatorMode, "")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nomiki.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	config, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, config.Path)
	assert.Equal(t, "data", config.DataDir)
	assert.Equal(t, filepath.Join("data", "law_database.json"), config.LawDatabase)
	assert.Equal(t, filepath.Join("data", "bookmarks.json"), config.Bookmarks)
	assert.Equal(t, filepath.Join("data", "welcome_messages.json"), config.WelcomeMessages)
	assert.Equal(t, "directional", config.Validator.Mode)
	assert.Equal(t, 1.0, config.Updater.RateLimit)
	assert.Equal(t, 30*time.Second, config.Updater.Timeout)
	assert.Equal(t, []string{"*.pdf", "*.txt"}, config.Inbox.Patterns)
	assert.Empty(t, config.Validate())
	assert.Equal(t, Default(), config)
}

func TestLoadFile(t *testing.T) {
	isolate(t)

	config, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/nomiki", config.DataDir)
	assert.Equal(t, "/var/lib/nomiki/law_database.json", config.LawDatabase)
	assert.Equal(t, "/home/officer/bookmarks.json", config.Bookmarks)
	assert.True(t, config.Extraction.StrictPenalty)
	assert.Equal(t, "legacy", config.Validator.Mode)
	assert.Equal(t, 0.5, config.Updater.RateLimit)
	assert.Equal(t, 10*time.Second, config.Updater.Timeout)
	assert.Equal(t, 2*time.Second, config.Inbox.Debounce)
	assert.Equal(t, "/var/lib/nomiki/inbox", config.Inbox.Dir)

	sources := config.Sources()
	require.Len(t, sources, 1)
	assert.True(t, sources[0].Remote())
	assert.Equal(t, "Ν.2168/1993", sources[0].Law)

	fc := config.FetcherConfig()
	assert.Equal(t, 0.5, fc.RateLimit)
	assert.Equal(t, 10*time.Second, fc.Timeout)
}

func TestLoadDefaultLocation(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile("nomiki.yaml", []byte("data_dir: local\n"), 0644))

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "nomiki.yaml", config.Path)
	assert.Equal(t, "local", config.DataDir)
}

func TestEnvironmentOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvDataDir, "/srv/nomiki")
	t.Setenv(EnvValidatorMode, "legacy")

	config, err := Load(writeConfig(t, "data_dir: ignored\n"))
	require.NoError(t, err)

	assert.Equal(t, "/srv/nomiki", config.DataDir)
	assert.Equal(t, "/srv/nomiki/bookmarks.json", config.Bookmarks)
	assert.Equal(t, "legacy", config.Validator.Mode)
}

func TestLoadErrors(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "validator: [unclosed\n"))
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestDefaultSourcesWhenNoneConfigured(t *testing.T) {
	isolate(t)
	config := Default()
	config.Updater.SourcesDir = "pdfs"

	sources := config.Sources()

	require.NotEmpty(t, sources)
	for _, s := range sources {
		assert.Equal(t, "pdfs", filepath.Dir(s.Location))
	}
}

func TestValidate(t *testing.T) {
	isolate(t)
	config := Default()
	config.Validator.Mode = "fuzzy"
	config.Updater.RateLimit = -1
	config.Updater.Sources = append(config.Updater.Sources, config.Sources()[0])
	config.Updater.Sources[0].Location = ""
	config.Inbox.Patterns = []string{"[bad"}

	errs := config.Validate()

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{
		"validator.mode",
		"updater.rate_limit",
		"updater.sources[0].location",
		"inbox.patterns[0]",
	}, fields)
	assert.Contains(t, errs[0].Error(), "validator.mode: ")
}

func TestExtractor(t *testing.T) {
	isolate(t)

	t.Run("built-in rules", func(t *testing.T) {
		config := Default()
		extractor, err := config.Extractor()
		require.NoError(t, err)
		assert.Len(t, extractor.Rules().Rules(), 4)
	})

	t.Run("rules file appended", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
version: "1"
rules:
  - name: fine
    kind: penalty
    keywords: ["πρόστιμο"]
`), 0644))
		config := Default()
		config.RulesFile = path

		extractor, err := config.Extractor()
		require.NoError(t, err)
		rules := extractor.Rules().Rules()
		require.Len(t, rules, 5)
		assert.Equal(t, "fine", rules[4].Name())
		assert.Equal(t, extract.KindPenalty, rules[4].Kind())
	})

	t.Run("missing rules file", func(t *testing.T) {
		config := Default()
		config.RulesFile = filepath.Join(t.TempDir(), "missing.yaml")
		_, err := config.Extractor()
		assert.Error(t, err)
	})
}

// chdirForTest changes the working directory for the duration of the test
// and restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
