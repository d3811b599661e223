package bootstrap

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miekg/dns"

	"chorddht/internal/config"
	"chorddht/internal/logger"
	"chorddht/internal/ring"
)

// DNS discovers peers via SRV records (preferred, since it carries port
// information) or plain A/AAAA records paired with a configured port.
// Register/Deregister are no-ops: this module only resolves, it does not
// publish — DNS-SD record management is out of scope.
type DNS struct {
	cfg config.DNSConfig
	lgr logger.Logger
}

// NewDNS builds a DNS bootstrap from configuration.
func NewDNS(cfg config.DNSConfig, lgr logger.Logger) *DNS {
	return &DNS{cfg: cfg, lgr: lgr}
}

func (d *DNS) Discover(ctx context.Context) ([]string, error) {
	server := d.cfg.Resolver
	if server == "" {
		server = "8.8.8.8:53"
	} else if !strings.Contains(server, ":") {
		server += ":53"
	}

	client := &dns.Client{Timeout: 2 * time.Second}
	qctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if d.cfg.SRV {
		return d.discoverSRV(qctx, client, server)
	}
	return d.discoverHost(qctx, client, server)
}

func (d *DNS) discoverSRV(ctx context.Context, client *dns.Client, server string) ([]string, error) {
	name := fmt.Sprintf("_%s._%s.%s", d.cfg.Service, d.cfg.Proto, d.cfg.Name)
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), dns.TypeSRV)

	in, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		d.lgr.Warn("SRV lookup failed", logger.F("qname", name), logger.F("err", err.Error()))
		return []string{}, nil
	}
	if len(in.Answer) == 0 {
		d.lgr.Warn("SRV lookup returned no answers", logger.F("qname", name))
		return []string{}, nil
	}

	glued := map[string][]string{}
	for _, extra := range in.Extra {
		switch rr := extra.(type) {
		case *dns.A:
			glued[strings.TrimSuffix(rr.Hdr.Name, ".")] = append(glued[strings.TrimSuffix(rr.Hdr.Name, ".")], rr.A.String())
		case *dns.AAAA:
			glued[strings.TrimSuffix(rr.Hdr.Name, ".")] = append(glued[strings.TrimSuffix(rr.Hdr.Name, ".")], rr.AAAA.String())
		}
	}

	var out []string
	for _, ans := range in.Answer {
		srv, ok := ans.(*dns.SRV)
		if !ok {
			continue
		}
		target := strings.TrimSuffix(srv.Target, ".")
		ips := glued[target]
		if len(ips) == 0 {
			ips = d.resolveA(ctx, client, server, target)
		}
		for _, ip := range ips {
			out = append(out, hostPort(ip, srv.Port))
		}
	}
	return out, nil
}

func (d *DNS) resolveA(ctx context.Context, client *dns.Client, server, target string) []string {
	var ips []string
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(target), dns.TypeA)
	if in, _, err := client.ExchangeContext(ctx, msg, server); err == nil {
		for _, a := range in.Answer {
			if arec, ok := a.(*dns.A); ok {
				ips = append(ips, arec.A.String())
			}
		}
	}
	msg6 := new(dns.Msg)
	msg6.SetQuestion(dns.Fqdn(target), dns.TypeAAAA)
	if in6, _, err := client.ExchangeContext(ctx, msg6, server); err == nil {
		for _, a := range in6.Answer {
			if aaaa, ok := a.(*dns.AAAA); ok {
				ips = append(ips, aaaa.AAAA.String())
			}
		}
	}
	return ips
}

func (d *DNS) discoverHost(ctx context.Context, client *dns.Client, server string) ([]string, error) {
	name := dns.Fqdn(d.cfg.Name)
	msg := new(dns.Msg)
	msg.SetQuestion(name, dns.TypeA)

	in, _, err := client.ExchangeContext(ctx, msg, server)
	if err != nil {
		d.lgr.Warn("A lookup failed", logger.F("qname", name), logger.F("err", err.Error()))
		return []string{}, nil
	}

	var out []string
	for _, ans := range in.Answer {
		if a, ok := ans.(*dns.A); ok {
			out = append(out, hostPort(a.A.String(), uint16(d.cfg.Port)))
		}
	}
	if len(out) == 0 {
		for _, ip := range d.resolveA(ctx, client, server, d.cfg.Name) {
			out = append(out, hostPort(ip, uint16(d.cfg.Port)))
		}
	}
	if len(out) == 0 {
		d.lgr.Warn("host lookup returned no addresses", logger.F("qname", name))
	}
	return out, nil
}

func hostPort(ip string, port uint16) string {
	if strings.Contains(ip, ":") {
		return fmt.Sprintf("[%s]:%d", ip, port)
	}
	return fmt.Sprintf("%s:%d", ip, port)
}

func (d *DNS) Register(ctx context.Context, node ring.Node) error { return nil }

func (d *DNS) Deregister(ctx context.Context, node ring.Node) error { return nil }
