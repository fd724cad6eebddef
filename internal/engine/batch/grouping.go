// internal/engine/batch/grouping.go
package batch

import (
	"sort"

	urlutil "github.com/law-makers/linkfill/internal/utils/url"
	"github.com/law-makers/linkfill/pkg/models"
)

const defaultGroup = "default"

// GroupByDomain groups requests by host, keeping input order inside a group
func GroupByDomain(requests []models.RequestOptions) map[string][]models.RequestOptions {
	groups := make(map[string][]models.RequestOptions)

	for _, req := range requests {
		host := urlutil.Hostname(req.URL)
		if host == "" {
			host = defaultGroup
		}
		groups[host] = append(groups[host], req)
	}

	return groups
}

// Interleave orders requests round-robin across hosts so consecutive
// dispatches rarely hit the same shop.
func Interleave(requests []models.RequestOptions) []models.RequestOptions {
	groups := GroupByDomain(requests)

	hosts := make([]string, 0, len(groups))
	for host := range groups {
		hosts = append(hosts, host)
	}
	sort.Strings(hosts)

	out := make([]models.RequestOptions, 0, len(requests))
	for i := 0; len(out) < len(requests); i++ {
		for _, host := range hosts {
			if i < len(groups[host]) {
				out = append(out, groups[host][i])
			}
		}
	}
	return out
}
