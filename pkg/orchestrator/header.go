package orchestrator

import (
	"bytes"
	"fmt"

	"github.com/flosch/pongo2/v6"

	"github.com/eclipse-scout/scout.sdk-sub042/pkg/dto"
	"github.com/eclipse-scout/scout.sdk-sub042/pkg/scout"
)

// headerTemplate renders the text written above the package declaration of
// every generated unit. Templates see modelType, dtoType, package, simpleName
// and generator.
type headerTemplate struct {
	tpl *pongo2.Template
}

func parseHeader(source string) (*headerTemplate, error) {
	if source == "" {
		return nil, nil
	}
	tpl, err := pongo2.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse header template: %w", err)
	}
	return &headerTemplate{tpl: tpl}, nil
}

func (h *headerTemplate) render(d *dto.DtoType) (string, error) {
	if h == nil || h.tpl == nil || d == nil {
		return "", nil
	}
	modelType := ""
	if d.Model != nil && d.Model.Type != nil {
		modelType = d.Model.Type.Name
	}
	var buf bytes.Buffer
	err := h.tpl.ExecuteWriter(pongo2.Context{
		"modelType":  modelType,
		"dtoType":    d.Ref.CanonicalName(),
		"package":    d.Ref.Package(),
		"simpleName": d.Ref.SimpleName(),
		"generator":  scout.GeneratedComment,
	}, &buf)
	if err != nil {
		return "", fmt.Errorf("orchestrator: render header for %s: %w", modelType, err)
	}
	return buf.String(), nil
}
