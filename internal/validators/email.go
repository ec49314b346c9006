package validators

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"
)

// NormalizeEmail trims and lower-cases an address and reports whether it is
// syntactically a bare mailbox (no display name).
func NormalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return email, false
	}
	return email, true
}

var lookupTimeout = 3 * time.Second

// IsEmailDomainValid reports whether the domain of email resolves to a mail
// exchanger or, failing that, to any address.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	var r net.Resolver
	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := r.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
