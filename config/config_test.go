package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPriority(t *testing.T) {
	tests := map[string]int{
		"Highest": 1,
		"High":    2,
		"Medium":  3,
		"Low":     4,
		"Lowest":  0,
		"":        0,
		"Blocker": 0,
		"high":    0,
	}

	for input, want := range tests {
		assert.Equal(t, want, MapPriority(input), "priority %q", input)
	}
}

func TestIssueURL(t *testing.T) {
	cfg := &Config{OrgSlug: "acme", CustomJiraURL: "https://jira.example.com"}
	assert.Equal(t, "https://acme.atlassian.net/browse/PROJ-1", cfg.IssueURL("PROJ-1"))

	cfg.OrgSlug = ""
	assert.Equal(t, "https://jira.example.com/browse/PROJ-1", cfg.IssueURL("PROJ-1"))
}

func TestFromViper_EnvironmentAndDefaults(t *testing.T) {
	t.Setenv("JIRA_CSV_PATH", "export.csv")
	t.Setenv("JIRA_CUSTOM_URL", "https://jira.example.com/")
	t.Setenv("JIRA_ORG_SLUG", "")
	t.Setenv("IMPORT_FORMAT", "")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := FromViper(NewViper())

	assert.Equal(t, "export.csv", cfg.CSVPath)
	assert.Equal(t, "https://jira.example.com", cfg.CustomJiraURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"missing path", Config{OrgSlug: "acme", OutputFormat: FormatJSON}, ErrMissingFilePath},
		{"missing location", Config{CSVPath: "a.csv", OutputFormat: FormatJSON}, ErrMissingJiraLocation},
		{"bad format", Config{CSVPath: "a.csv", OrgSlug: "acme", OutputFormat: "xml"}, ErrUnsupportedFormat},
		{"ok yaml", Config{CSVPath: "a.csv", CustomJiraURL: "https://j", OutputFormat: FormatYAML}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
