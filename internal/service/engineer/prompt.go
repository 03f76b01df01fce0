package engineer

import (
	_ "embed"
	"strings"
	"text/template"

	"github.com/aanand-mishra/engineers-api/internal/types"
)

//go:embed prompt.md
var learningPathPromptRaw string

// learningPathTemplate is parsed once at package init.
var learningPathTemplate = template.Must(template.New("learning_path").Parse(learningPathPromptRaw))

// LearningPathPrompt renders the roadmap request for e.
func LearningPathPrompt(e types.Engineer) (string, error) {
	var b strings.Builder
	err := learningPathTemplate.Execute(&b, struct {
		Name      string
		TechStack string
	}{
		Name:      e.Name,
		TechStack: strings.Join(e.TechStack, ", "),
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
