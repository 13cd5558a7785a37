package di

import (
	"carrental/internal/jobs"
	"carrental/transport/http"
)

// App bundles the long-running pieces of the service.
type App struct {
	HTTP  *http.HTTP
	Sweep *jobs.OverdueSweep
}
