package secrets

import (
	"context"
	"sync"

	shared "github.com/ripixel/fitglue-importer/pkg"
)

// CookieSource reads the Lyfta session cookie from a SecretStore once and
// reuses it for the life of the process.
type CookieSource struct {
	Store     shared.SecretStore
	ProjectID string
	Name      string

	once   sync.Once
	cookie string
	err    error
}

func (c *CookieSource) Cookie(ctx context.Context) (string, error) {
	c.once.Do(func() {
		name := c.Name
		if name == "" {
			name = LyftaCookie
		}
		c.cookie, c.err = c.Store.GetSecret(ctx, c.ProjectID, name)
	})
	return c.cookie, c.err
}
