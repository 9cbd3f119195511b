// Package api provides the HTTP API for the application
package api

import (
	"diffjar/internal/platform/config"
	phttp "diffjar/internal/platform/net/http"

	"diffjar/internal/modkit/httpkit"
	"diffjar/internal/modkit/module"
	"diffjar/internal/modkit/swaggerkit"

	metahttp "diffjar/internal/services/api/meta/http"
	metamod "diffjar/internal/services/api/meta/module"
	diffmod "diffjar/internal/services/diff/module"
)

// ServiceName is reported by /meta/service and the docs title
const ServiceName = "diffjar-api"

// Options are the API options
type Options struct {
	Config         config.Conf
	Diff           *diffmod.Module
	Checks         []metahttp.Check
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	mods := []module.Module{
		metamod.New(ServiceName, opt.Checks),
	}
	if opt.Diff != nil {
		mods = append(mods, opt.Diff)
	}

	// docs and profiler live outside the versioned scope
	swaggerkit.Mount(r, "/api/v1", opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	stack := httpkit.CommonStack(httpkit.StackFromConfig(opt.Config))
	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register ports under the module name for cross module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})
}
