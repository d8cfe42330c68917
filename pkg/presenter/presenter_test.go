package presenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codeready-toolchain/athena/pkg/models"
)

func TestRender_EnglishPermissionFailure(t *testing.T) {
	result := models.ExecutionResult{
		Target:   "web-01",
		Command:  "systemctl restart nginx",
		ExitCode: 1,
		Stderr:   "permission denied",
		ErrorAnalysis: &models.ErrorAnalysis{
			Kind: models.ErrorKindPermission,
		},
	}

	out := Render(result, LocaleEnglish)
	assert.Contains(t, out, "Command failed: systemctl restart nginx")
	assert.Contains(t, out, "Target: web-01")
	assert.Contains(t, out, "Exit code: 1")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "sudoers")
}

func TestRender_SpanishCredentialFailure(t *testing.T) {
	result := models.ExecutionResult{
		Target:   "db-01",
		Command:  "ssh db-01",
		ExitCode: 255,
		Stderr:   "authentication failed",
		ErrorAnalysis: &models.ErrorAnalysis{
			Kind: models.ErrorKindCredential,
		},
	}

	out := Render(result, LocaleSpanish)
	assert.Contains(t, out, "El comando falló")
	assert.Contains(t, out, "/variables")
}

func TestRender_UnknownLocaleFallsBackToEnglish(t *testing.T) {
	result := models.ExecutionResult{Command: "echo hi", ExitCode: 1}
	out := Render(result, Locale("fr"))
	assert.Contains(t, out, "Command failed")
}

func TestRender_MissingErrorAnalysisFallsBackToUnknownSuggestions(t *testing.T) {
	result := models.ExecutionResult{Command: "echo hi", ExitCode: 1, Stderr: "something broke"}
	out := Render(result, LocaleEnglish)
	assert.Contains(t, out, "did not match a known pattern")
}

func TestRender_TruncatesLongStderr(t *testing.T) {
	long := strings.Repeat("x", 500)
	result := models.ExecutionResult{Command: "echo hi", ExitCode: 1, Stderr: long}
	out := Render(result, LocaleEnglish)
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, strings.Repeat("x", 500))
}

func TestRender_ShortStderrNotTruncated(t *testing.T) {
	result := models.ExecutionResult{Command: "echo hi", ExitCode: 1, Stderr: "short error"}
	out := Render(result, LocaleEnglish)
	assert.Contains(t, out, "short error")
	assert.NotContains(t, out, "short error...")
}
