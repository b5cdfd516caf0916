package helper

import (
	"fmt"

	"cinema_storefront/model"

	"github.com/gosimple/slug"
)

// MovieSlug is the storefront path segment for a movie. Titles that slug to
// nothing fall back to the id.
func MovieSlug(m *model.Movie) string {
	if m == nil {
		return ""
	}
	if s := slug.Make(m.Title); s != "" {
		return s
	}
	return fmt.Sprintf("movie-%d", m.Id)
}
