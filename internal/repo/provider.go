package repo

import (
	"context"
	"strings"

	"github.com/dpolishuk/codewiki/backend/internal/models"
)

// Contents is what a source provider returns for a repository: the flat file
// listing and the README text. Readme may be empty, FileList order is the
// provider's enumeration order.
type Contents struct {
	FileList []string
	Readme   string
}

// FileTree renders the listing as one path per line, the form the structure
// prompt embeds.
func (c *Contents) FileTree() string {
	return strings.Join(c.FileList, "\n")
}

// Provider retrieves repository contents for a normalized identity
type Provider interface {
	Fetch(ctx context.Context, info *models.RepositoryInfo) (*Contents, error)
}
