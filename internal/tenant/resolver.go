// Package tenant maps inbound request hosts to shop identifiers and
// rewrites subdomain traffic to shop-scoped routes.
package tenant

import (
	"net/http"
	"strings"
)

// Resolver is a state-free host transform. It never consults the credential
// store; access control happens downstream on the shop routes.
type Resolver struct {
	// BaseHost is the development host suffix carrying shop subdomains,
	// including the port (e.g. "localhost:3000").
	BaseHost string
	// ApexDomain is the production apex whose subdomains are shops.
	ApexDomain string
	// PlatformDomain is the hosting provider's default domain. Its
	// subdomains belong to deployments, never to shops.
	PlatformDomain string
}

func NewResolver(baseHost string, apexDomain string, platformDomain string) *Resolver {
	return &Resolver{
		BaseHost:       strings.ToLower(strings.TrimSpace(baseHost)),
		ApexDomain:     strings.ToLower(strings.TrimSpace(apexDomain)),
		PlatformDomain: strings.ToLower(strings.TrimSpace(platformDomain)),
	}
}

// ShopFromHost extracts the leftmost host label as the shop identifier when
// the host matches a shop subdomain pattern. A "www" prefix and the
// platform's own hosting domain never resolve to a shop.
func (rs *Resolver) ShopFromHost(host string) (string, bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || strings.HasPrefix(host, "www.") {
		return "", false
	}

	if rs.PlatformDomain != "" &&
		(host == rs.PlatformDomain || strings.HasSuffix(host, "."+rs.PlatformDomain)) {
		return "", false
	}

	if label, ok := subdomainLabel(host, rs.BaseHost); ok {
		return label, true
	}
	if label, ok := subdomainLabel(host, rs.ApexDomain); ok {
		return label, true
	}

	return "", false
}

// Rewrite routes subdomain traffic: the root path becomes the shop-scoped
// route for the host's shop. Every other path passes through so auth pages
// served under the subdomain do not loop.
func (rs *Resolver) Rewrite(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			if shop, ok := rs.ShopFromHost(r.Host); ok {
				r.URL.Path = "/shop/" + shop
			}
		}

		next.ServeHTTP(w, r)
	})
}

func subdomainLabel(host string, base string) (string, bool) {
	if base == "" || !strings.HasSuffix(host, "."+base) {
		return "", false
	}

	label := strings.TrimSuffix(host, "."+base)
	if label == "" || strings.Contains(label, ".") {
		return "", false
	}
	return label, true
}
