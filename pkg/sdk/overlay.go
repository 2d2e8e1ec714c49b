package bizsearch

import (
	"net/http"

	"github.com/kailas-cloud/bizsearch/internal/transport/overlay"
	"github.com/kailas-cloud/bizsearch/internal/usecase/resource"
)

func newOverlay(s overlay.Searcher) *overlay.Middleware {
	return overlay.New(nil, overlay.Resources(resource.Definitions(), s)...)
}

// Overlay wraps next with the search overlay. GET list requests of the
// catalog, inventory and ordering resources are answered from the index:
// their filters are replaced by the matching ids before next sees them.
// Any failure leaves the request as sent.
func (c *Client) Overlay(next http.Handler) http.Handler {
	return c.overlay.Handler(next)
}

// Rewrite applies the overlay to r in place and reports whether r was
// rewritten.
func (c *Client) Rewrite(r *http.Request) (rewritten bool, err error) {
	return c.overlay.Rewrite(r.Context(), r)
}
