package github

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/saltyorg/git-semver/internal/docs"
)

// InActions reports whether the process runs inside GitHub Actions.
func InActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// Output is a single step output.
type Output struct {
	Name  string
	Value string
}

// VersionSummary holds everything reported for one computed version.
type VersionSummary struct {
	Version         string
	VersionCode     uint32
	CodeFallback    bool // version code degraded to 0 after an encoder failure
	Channel         string
	Tag             string
	Commit          string
	CommitsSinceTag uint
	Release         bool // HEAD is a tagged stable release
	Stamped         []docs.Result
	Generated       string // path of the generated provider file, if any
}

// Outputs returns the step outputs for the summary.
func (s *VersionSummary) Outputs() []Output {
	return []Output{
		{Name: "version", Value: s.Version},
		{Name: "version_code", Value: strconv.FormatUint(uint64(s.VersionCode), 10)},
		{Name: "channel", Value: s.Channel},
		{Name: "commit", Value: s.Commit},
		{Name: "commits_since_tag", Value: strconv.FormatUint(uint64(s.CommitsSinceTag), 10)},
	}
}

// WriteOutputs appends the step outputs to GITHUB_OUTPUT when running in GitHub Actions.
func (s *VersionSummary) WriteOutputs() error {
	if !InActions() {
		return nil
	}

	outputFile := os.Getenv("GITHUB_OUTPUT")
	if outputFile == "" {
		return nil
	}

	var sb strings.Builder
	for _, o := range s.Outputs() {
		writeOutput(&sb, o)
	}

	return appendFile(outputFile, sb.String())
}

// writeOutput uses the heredoc form for values spanning several lines.
func writeOutput(sb *strings.Builder, o Output) {
	if !strings.Contains(o.Value, "\n") {
		fmt.Fprintf(sb, "%s=%s\n", o.Name, o.Value)
		return
	}
	delimiter := "GIT_SEMVER_EOF"
	for strings.Contains(o.Value, delimiter) {
		delimiter += "_"
	}
	fmt.Fprintf(sb, "%s<<%s\n%s\n%s\n", o.Name, delimiter, o.Value, delimiter)
}

// WriteGitHubSummary writes the summary to GITHUB_STEP_SUMMARY if running in GitHub Actions.
func (s *VersionSummary) WriteGitHubSummary() error {
	if !InActions() {
		return nil
	}

	summaryFile := os.Getenv("GITHUB_STEP_SUMMARY")
	if summaryFile == "" {
		return nil
	}

	return appendFile(summaryFile, s.Markdown())
}

// Markdown renders the step summary.
func (s *VersionSummary) Markdown() string {
	var sb strings.Builder

	sb.WriteString("## 🏷️ Version\n\n")

	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Version Name | `%s` |\n", s.Version))
	if s.CodeFallback {
		sb.WriteString(fmt.Sprintf("| Version Code | %d ⚠️ fallback |\n", s.VersionCode))
	} else {
		sb.WriteString(fmt.Sprintf("| Version Code | %d |\n", s.VersionCode))
	}
	sb.WriteString(fmt.Sprintf("| Channel | %s |\n", s.Channel))
	tag := s.Tag
	if tag == "" {
		tag = "_none_"
	}
	sb.WriteString(fmt.Sprintf("| Last Tag | %s |\n", tag))
	sb.WriteString(fmt.Sprintf("| Commits Since Tag | %d |\n", s.CommitsSinceTag))
	if s.Release {
		sb.WriteString("| Release | ✅ yes |\n")
	} else {
		sb.WriteString("| Release | no |\n")
	}
	if s.Commit != "" {
		sb.WriteString(fmt.Sprintf("| Commit | `%s` |\n", s.Commit))
	}
	sb.WriteString("\n")

	if s.Generated != "" {
		sb.WriteString(fmt.Sprintf("Generated `%s`\n\n", s.Generated))
	}

	if len(s.Stamped) > 0 {
		counts := docs.CountByStatus(s.Stamped)
		if len(s.Stamped) > 10 {
			sb.WriteString("<details>\n")
			sb.WriteString(fmt.Sprintf("<summary><strong>Stamped Files (%d updated)</strong></summary>\n\n", counts[docs.StatusUpdated]))
		} else {
			sb.WriteString(fmt.Sprintf("### Stamped Files (%d updated)\n\n", counts[docs.StatusUpdated]))
		}

		sb.WriteString("| File | Status |\n")
		sb.WriteString("|------|--------|\n")
		for _, r := range s.Stamped {
			status := string(r.Status)
			if r.Reason != "" {
				status += ": " + strings.ReplaceAll(r.Reason, "|", "\\|")
			}
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", r.Path, status))
		}
		sb.WriteString("\n")

		if len(s.Stamped) > 10 {
			sb.WriteString("</details>\n\n")
		}
	}

	return sb.String()
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	_, err = f.WriteString(content)
	return err
}
