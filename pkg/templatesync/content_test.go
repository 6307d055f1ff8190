package templatesync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMF112018/project-controls/pkg/models"
	"github.com/RMF112018/project-controls/pkg/testutil"
)

func TestValidateContent_CleanTemplate(t *testing.T) {
	template := testutil.CreateTestSharedTemplate()

	assert.Empty(t, ValidateContent(*template))
	require.NoError(t, AssertContentValid(*template))
}

func TestValidateContent_DisallowedSourceSite(t *testing.T) {
	template := testutil.CreateTestSharedTemplate(func(tpl *models.SharedTemplate) {
		tpl.TemplateSiteURL = "https://evil.com/sites/template"
	})

	violations := ValidateContent(*template)
	require.Len(t, violations, 1)
	assert.Equal(t, "template_site_url", violations[0].Field)
	assert.Contains(t, violations[0].Message, `sharepoint\.com/sites/`)
}

func TestValidateContent_NonHTTPSRepo(t *testing.T) {
	template := testutil.CreateTestSharedTemplate(func(tpl *models.SharedTemplate) {
		tpl.GitRepoURL = "git@github.com:contoso/site-templates.git"
	})

	violations := ValidateContent(*template)
	require.Len(t, violations, 1)
	assert.Equal(t, "git_repo_url", violations[0].Field)
}

func TestValidateContent_InjectionPatterns(t *testing.T) {
	payloads := []string{
		"<script>alert(1)</script>",
		"<SCRIPT SRC=x>",
		"click javascript:alert(1)",
		`<img onerror = "x">`,
		"eval (payload)",
		"width: expression(alert(1))",
		"vbscript:msgbox",
		"data:text/html;base64,xxx",
	}

	for _, payload := range payloads {
		template := testutil.CreateTestSharedTemplate(func(tpl *models.SharedTemplate) {
			tpl.Description = payload
		})

		violations := ValidateContent(*template)
		require.NotEmpty(t, violations, "payload %q should be rejected", payload)
		assert.Equal(t, "description", violations[0].Field)
	}
}

func TestValidateContent_ReportsEveryViolation(t *testing.T) {
	template := testutil.CreateTestSharedTemplate(func(tpl *models.SharedTemplate) {
		tpl.TemplateSiteURL = "https://evil.com/sites/template"
		tpl.GitRepoURL = "http://github.com/contoso/site-templates.git"
		tpl.Title = "<script>alert(1)</script>"
		tpl.Description = "javascript:alert(1)"
	})

	violations := ValidateContent(*template)
	assert.Len(t, violations, 4)

	err := AssertContentValid(*template)
	require.Error(t, err)
	assert.True(t, IsContentValidationError(err))

	var contentErr *ContentValidationError

	require.ErrorAs(t, err, &contentErr)
	assert.Len(t, contentErr.Violations, 4)
}

func TestValidateContent_EmptyURLFieldsAreAllowed(t *testing.T) {
	template := testutil.CreateTestSharedTemplate(func(tpl *models.SharedTemplate) {
		tpl.TemplateSiteURL = ""
		tpl.GitRepoURL = ""
	})

	assert.Empty(t, ValidateContent(*template))
}
