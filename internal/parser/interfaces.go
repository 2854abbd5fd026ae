package parser

import (
	"context"

	"github.com/toyz/delegate/internal/models"
)

// PackageLoader loads package directories with type information
type PackageLoader interface {
	Load(ctx context.Context, opts LoadOptions) ([]*Package, error)
}

// MemberScanner finds the marked members of loaded packages
type MemberScanner interface {
	Scan(pkgs []*Package) []*models.MarkedMember
}
