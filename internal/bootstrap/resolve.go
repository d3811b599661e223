package bootstrap

import (
	"fmt"

	"chorddht/internal/config"
	"chorddht/internal/logger"
)

// New builds the Bootstrap backend named by cfg.Mode.
func New(cfg config.BootstrapConfig, lgr logger.Logger) (Bootstrap, error) {
	switch cfg.Mode {
	case "static":
		return NewStatic(cfg.Peers), nil
	case "dns":
		return NewDNS(cfg.DNS, lgr.Named("bootstrap.dns")), nil
	case "route53":
		return NewRoute53(cfg.Route53)
	default:
		return nil, fmt.Errorf("bootstrap: unsupported mode %q", cfg.Mode)
	}
}
