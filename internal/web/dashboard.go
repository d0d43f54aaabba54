package web

import (
	"net/http"

	"github.com/flosch/pongo2/v6"
	"golang.org/x/sync/errgroup"

	"github.com/comunavision/go-admin/pkg/apiclient"
	"github.com/comunavision/go-admin/pkg/comuneros"
	"github.com/comunavision/go-admin/pkg/schema"
)

// handleDashboard fans the three independent upstream reads out in parallel.
// A failed health probe degrades to a warning banner instead of failing the
// whole page; the counters are the page, so their errors do surface.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var (
		stats  comuneros.Stats
		fields []schema.FieldDescriptor
		health apiclient.HealthStatus
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		stats, err = s.comuneros.Stats(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		fields, err = s.campos.List(groupCtx)
		return err
	})

	healthErr := make(chan error, 1)
	go func() {
		var err error
		health, err = s.client.Health(ctx)
		healthErr <- err
	}()

	if err := group.Wait(); err != nil {
		s.fail(w, err)
		return
	}

	backendUp := false
	if err := <-healthErr; err == nil && health.OK() {
		backendUp = true
	}

	s.renderPage(w, "dashboard.html", pongo2.Context{
		"title":         "Panel",
		"stats":         stats,
		"campos_total":  len(fields),
		"campos_active": len(schema.ActiveFields(fields)),
		"backend_up":    backendUp,
		"backend":       health,
	})
}
