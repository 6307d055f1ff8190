package templatesync

import (
	"fmt"
	"regexp"

	"github.com/RMF112018/project-controls/pkg/models"
)

// SourceSitePattern is the allow-listed origin for template site URLs: syncs may
// only pull from a SharePoint sites collection.
const SourceSitePattern = `^https://[a-zA-Z0-9-]+\.sharepoint\.com/sites/`

var (
	sourceSiteRe = regexp.MustCompile(SourceSitePattern)
	httpsRepoRe  = regexp.MustCompile(`^https://`)

	// injectionPatterns is the fixed list of script/markup/URI-scheme payloads
	// rejected in free-text fields.
	injectionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)\bon\w+\s*=`),
		regexp.MustCompile(`(?i)eval\s*\(`),
		regexp.MustCompile(`(?i)expression\s*\(`),
		regexp.MustCompile(`(?i)vbscript:`),
		regexp.MustCompile(`(?i)data:text/html`),
	}
)

// Violation describes one content-safety failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// ValidateContent checks the sync-relevant fields of a template and returns
// every violation found, never stopping at the first.
func ValidateContent(template models.SharedTemplate) []Violation {
	var violations []Violation

	if template.TemplateSiteURL != "" && !sourceSiteRe.MatchString(template.TemplateSiteURL) {
		violations = append(violations, Violation{
			Field:   "template_site_url",
			Message: fmt.Sprintf("must match the allow-listed source site pattern %s", SourceSitePattern),
		})
	}

	if template.GitRepoURL != "" && !httpsRepoRe.MatchString(template.GitRepoURL) {
		violations = append(violations, Violation{
			Field:   "git_repo_url",
			Message: "must be an https:// URL",
		})
	}

	textFields := []struct {
		field string
		value string
	}{
		{"title", template.Title},
		{"description", template.Description},
	}

	for _, f := range textFields {
		for _, pattern := range injectionPatterns {
			if pattern.MatchString(f.value) {
				violations = append(violations, Violation{
					Field:   f.field,
					Message: fmt.Sprintf("contains disallowed content matching %s", pattern.String()),
				})
			}
		}
	}

	return violations
}

// AssertContentValid fails with a *ContentValidationError carrying the complete
// violation list if the template content is unsafe.
func AssertContentValid(template models.SharedTemplate) error {
	if violations := ValidateContent(template); len(violations) > 0 {
		return &ContentValidationError{Violations: violations}
	}

	return nil
}
