package bootstrap

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/route53"
	"github.com/aws/aws-sdk-go-v2/service/route53/types"

	"chorddht/internal/config"
	"chorddht/internal/ring"
)

// Route53 discovers and publishes peer addresses as SRV records in a
// hosted zone, using the node's own hex id as the record owner name so
// concurrently-joining nodes don't collide.
type Route53 struct {
	client       *route53.Client
	hostedZoneID string
	domainSuffix string
	ttl          int64
}

// NewRoute53 builds a Route53 bootstrap, loading AWS credentials from the
// default provider chain.
func NewRoute53(cfg config.Route53Config) (*Route53, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: load AWS config: %w", err)
	}
	return &Route53{
		client:       route53.NewFromConfig(awsCfg),
		hostedZoneID: cfg.HostedZoneID,
		domainSuffix: strings.TrimSuffix(cfg.DomainSuffix, "."),
		ttl:          cfg.TTL,
	}, nil
}

// Discover lists every SRV record under the configured domain suffix and
// resolves each target hostname to its current addresses.
func (r *Route53) Discover(ctx context.Context) ([]string, error) {
	var endpoints []string
	input := &route53.ListResourceRecordSetsInput{HostedZoneId: aws.String(r.hostedZoneID)}
	paginator := route53.NewListResourceRecordSetsPaginator(r.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: list records: %w", err)
		}
		for _, rrset := range page.ResourceRecordSets {
			if rrset.Type != types.RRTypeSrv {
				continue
			}
			if !strings.HasSuffix(strings.TrimSuffix(*rrset.Name, "."), r.domainSuffix) {
				continue
			}
			for _, rr := range rrset.ResourceRecords {
				var prio, weight, port int
				var target string
				if _, err := fmt.Sscanf(*rr.Value, "%d %d %d %s", &prio, &weight, &port, &target); err != nil {
					continue
				}
				target = strings.TrimSuffix(target, ".")
				ips, err := net.LookupHost(target)
				if err != nil {
					continue
				}
				for _, ip := range ips {
					endpoints = append(endpoints, fmt.Sprintf("%s:%d", ip, port))
				}
			}
		}
	}
	return endpoints, nil
}

// Register upserts an SRV record naming this node's address, keyed by its
// ring id so re-registration (e.g. after a restart with the same id)
// replaces rather than duplicates.
func (r *Route53) Register(ctx context.Context, node ring.Node) error {
	return r.change(ctx, node, types.ChangeActionUpsert)
}

// Deregister removes the SRV record Register published.
func (r *Route53) Deregister(ctx context.Context, node ring.Node) error {
	return r.change(ctx, node, types.ChangeActionDelete)
}

func (r *Route53) change(ctx context.Context, node ring.Node, action types.ChangeAction) error {
	host, port, err := net.SplitHostPort(node.Addr)
	if err != nil {
		return fmt.Errorf("bootstrap: split %q: %w", node.Addr, err)
	}
	recordName := fmt.Sprintf("%s.%s.", node.ID.Hex(), r.domainSuffix)
	input := &route53.ChangeResourceRecordSetsInput{
		HostedZoneId: aws.String(r.hostedZoneID),
		ChangeBatch: &types.ChangeBatch{
			Changes: []types.Change{
				{
					Action: action,
					ResourceRecordSet: &types.ResourceRecordSet{
						Name: aws.String(recordName),
						Type: types.RRTypeSrv,
						TTL:  aws.Int64(r.ttl),
						ResourceRecords: []types.ResourceRecord{
							{Value: aws.String(fmt.Sprintf("0 0 %s %s.", port, host))},
						},
					},
				},
			},
		},
	}
	_, err = r.client.ChangeResourceRecordSets(ctx, input)
	return err
}
