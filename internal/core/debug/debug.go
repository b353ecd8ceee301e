// Package debug holds the optional runtime-inspection utilities prsctl can
// start alongside its CLI commands.
package debug

import (
	"fmt"
	"net/http"
	_ "net/http/pprof"

	"go.uber.org/zap"

	"github.com/dcrodman/prs/internal/core"
)

// StartPprofServer starts the default pprof HTTP server that can be accessed
// via localhost to get runtime information about prsctl.
// See https://golang.org/pkg/net/http/pprof/
func StartPprofServer(cfg *core.Config, logger *zap.SugaredLogger) {
	listenerAddr := fmt.Sprintf("%s:%d", cfg.Hostname, cfg.Debugging.PprofPort)
	logger.Infof("starting pprof server on %s", listenerAddr)

	go func() {
		if err := http.ListenAndServe(listenerAddr, nil); err != nil {
			logger.Infof("error starting pprof server: %s", err)
		}
	}()
}
