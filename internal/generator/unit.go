package generator

import (
	"path/filepath"

	"github.com/iancoleman/strcase"

	"github.com/toyz/delegate/internal/models"
	"github.com/toyz/delegate/internal/templates"
)

// UnitFileName names the generated unit of a container, e.g.
// autogen_delegate_http_client.go for HTTPClient
func UnitFileName(prefix, typeName string) string {
	return prefix + strcase.ToSnake(typeName) + ".go"
}

// unitModel assembles the template data of one unit
func (g *Generator) unitModel(c *models.ContainerType, im *templates.ImportManager, setterParam string,
	ops []models.ForwardedOperation) *templates.UnitModel {
	return &templates.UnitModel{
		PackageName:     c.PackageName,
		Imports:         im.GenerateImports(),
		Receiver:        c.ReceiverName,
		ReceiverType:    c.ReceiverType(),
		SetterParam:     setterParam,
		InlineDirective: g.options.InlineDirective,
		Operations:      ops,
	}
}

func unitPath(dir, fileName string) string {
	if dir == "" {
		return fileName
	}
	return filepath.Join(dir, fileName)
}
