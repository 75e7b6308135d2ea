package summarize

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// frontmatterPattern matches a YAML frontmatter block at the start of a
// proposal file.
var frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---`)

// sectionOrder is the fixed order summary sections appear in, mapping the
// rendered label to the markdown heading it is extracted from.
var sectionOrder = []struct {
	Label   string
	Heading string
}{
	{"SUMMARY", "Abstract"},
	{"SPECIFICATION", "Specification"},
	{"MOTIVATION", "Motivation"},
	{"RATIONALE", "Rationale"},
}

// wordsPerToken approximates the token count of prose. Naive, but the
// budget only has to be stable, not exact.
const wordsPerToken = 1.3

// extractFrontmatter parses the YAML frontmatter of a proposal file.
// Malformed YAML yields an empty map: the proposal is still summarized,
// its metadata fields render as Unknown.
func extractFrontmatter(content string) map[string]interface{} {
	match := frontmatterPattern.FindStringSubmatch(content)
	if match == nil {
		return map[string]interface{}{}
	}

	var meta map[string]interface{}
	if err := yaml.Unmarshal([]byte(match[1]), &meta); err != nil || meta == nil {
		return map[string]interface{}{}
	}
	return meta
}

// extractSection returns the body of a "## <name>" section, up to the
// next second-level heading. Empty string if the section is absent.
func extractSection(content, section string) string {
	pattern := regexp.MustCompile(`(?s)## ` + regexp.QuoteMeta(section) + `\n(.*?)(\n## |$)`)
	match := pattern.FindStringSubmatch(content)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// truncateToTokens cuts text to approximately maxTokens tokens, breaking
// on word boundaries.
func truncateToTokens(text string, maxTokens int) string {
	words := strings.Fields(text)
	wordLimit := int(float64(maxTokens) / wordsPerToken)
	if wordLimit >= len(words) {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:wordLimit], " ")
}

// metaString renders a frontmatter value the way the artifacts expect:
// dates as YYYY-MM-DD, everything else in its natural form, missing
// values as the fallback.
func metaString(meta map[string]interface{}, key, fallback string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return fallback
	}
	if ts, ok := v.(time.Time); ok {
		return ts.Format("2006-01-02")
	}
	return fmt.Sprintf("%v", v)
}

// requiresList normalizes the frontmatter "requires" field: a single
// number becomes a one-element list, nil becomes empty.
func requiresList(meta map[string]interface{}) []string {
	v, ok := meta["requires"]
	if !ok || v == nil {
		return nil
	}

	switch val := v.(type) {
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, r := range val {
			out = append(out, fmt.Sprintf("%v", r))
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", val)}
	}
}

// renderBlock produces the summary block for one proposal at the given
// token budget. The format is fixed: a keyed header followed by the
// metadata lines and truncated sections, so unchanged proposals render
// byte-identical blocks.
func renderBlock(kind, content string, maxTokens int) string {
	meta := extractFrontmatter(content)

	// Budget is divided between the four sections
	sectionBudget := maxTokens / 4

	parts := []string{
		fmt.Sprintf("=== %s-%s ===", strings.ToUpper(kind), metaString(meta, kind, metaString(meta, "eip", "Unknown"))),
		fmt.Sprintf("TITLE: %s", metaString(meta, "title", "Unknown")),
		fmt.Sprintf("TYPE: %s %s", metaString(meta, "type", "Unknown"), metaString(meta, "category", "")),
		fmt.Sprintf("STATUS: %s", metaString(meta, "status", "Unknown")),
		fmt.Sprintf("CREATED: %s", metaString(meta, "created", "Unknown")),
		fmt.Sprintf("REQUIRES: %s\n", strings.Join(requiresList(meta), ", ")),
	}

	for _, section := range sectionOrder {
		body := extractSection(content, section.Heading)
		if body == "" {
			continue
		}
		truncated := truncateToTokens(body, sectionBudget)
		parts = append(parts, fmt.Sprintf("%s:\n%s\n", section.Label, truncated))
	}

	return strings.Join(parts, "\n")
}

// proposalStatus returns the lowercased status from a proposal's
// frontmatter, or empty string.
func proposalStatus(content string) string {
	meta := extractFrontmatter(content)
	return strings.ToLower(metaString(meta, "status", ""))
}
