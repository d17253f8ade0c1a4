package utils

import "strings"

// IsDomainLocalhost reports whether a VASP domain should be fetched over
// plain HTTP rather than HTTPS. Only loopback and local/internal TLDs
// qualify, which is intended for testing setups.
func IsDomainLocalhost(domain string) bool {
	domainWithoutPort := strings.Split(domain, ":")[0]
	domainParts := strings.Split(domainWithoutPort, ".")
	tld := domainParts[len(domainParts)-1]
	return domainWithoutPort == "localhost" || domainWithoutPort == "127.0.0.1" || tld == "local" || tld == "internal"
}
