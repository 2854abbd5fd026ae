package generator

import "github.com/toyz/delegate/internal/models"

// CodeGenerator turns the marked members of one pass into generated units
type CodeGenerator interface {
	Generate(members []*models.MarkedMember) ([]*models.GeneratedUnit, error)
}
