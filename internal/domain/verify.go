// internal/domain/verify.go
//
// DNS ownership check for custom domains.
//
// Context
// -------
// A host is verified when either
//
//	TXT   <prefix>.<host>  contains the row's verification token, or
//	CNAME <host>           points at the platform target.
//
// The TXT check runs first because it works for apex domains, which cannot
// carry a CNAME.  Lookups go through the Resolver interface; production
// passes net.DefaultResolver and tests pass a fake.

package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Resolver is the subset of *net.Resolver used here.
type Resolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
	LookupCNAME(ctx context.Context, host string) (string, error)
}

// Result is the outcome of one verification attempt.
type Result struct {
	Verified bool   `json:"verified"`
	Method   string `json:"method,omitempty"` // "txt" or "cname"
	Reason   string `json:"reason,omitempty"`
}

// Verifier checks DNS for a domain record.
type Verifier struct {
	Resolver    Resolver
	TXTPrefix   string // e.g. "_linkbio"
	CNAMETarget string // e.g. "pages.linkbio.app"
}

// Verify never returns an error for DNS misses; those become a failed
// Result with a reason the owner can act on.
func (v *Verifier) Verify(ctx context.Context, rec *Record) Result {
	txtName := v.TXTPrefix + "." + rec.Host
	txts, txtErr := v.Resolver.LookupTXT(ctx, txtName)
	for _, t := range txts {
		if strings.TrimSpace(t) == rec.VerificationToken {
			return Result{Verified: true, Method: "txt"}
		}
	}

	target := canonical(v.CNAMETarget)
	cname, cnameErr := v.Resolver.LookupCNAME(ctx, rec.Host)
	if cnameErr == nil && canonical(cname) == target {
		return Result{Verified: true, Method: "cname"}
	}

	switch {
	case len(txts) > 0:
		return Result{Reason: fmt.Sprintf("TXT record at %s does not match the verification token", txtName)}
	case cnameErr == nil && canonical(cname) != canonical(rec.Host):
		return Result{Reason: fmt.Sprintf("CNAME points to %s, expected %s", canonical(cname), target)}
	case isTimeout(txtErr) || isTimeout(cnameErr):
		return Result{Reason: "DNS lookup timed out; try again shortly"}
	default:
		return Result{Reason: fmt.Sprintf("no TXT record at %s and no CNAME to %s", txtName, target)}
	}
}

func canonical(h string) string { return strings.TrimSuffix(strings.ToLower(h), ".") }

func isTimeout(err error) bool {
	var de *net.DNSError
	return errors.As(err, &de) && de.IsTimeout
}
