package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"syscall"

	"github.com/hamed0406/sitecheck/internal/domain"
)

// Classify tells which transport stage a request error came from.
// DNS failures are checked first: a resolver timeout still counts as DNS.
func Classify(err error) domain.Cause {
	if err == nil {
		return domain.CauseNone
	}

	var de *net.DNSError
	if errors.As(err, &de) {
		return domain.CauseDNS
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.CauseTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.CauseTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return domain.CauseRefused
	}

	if isTLSError(err) {
		return domain.CauseTLS
	}
	return domain.CauseOther
}

func isTLSError(err error) bool {
	var (
		verr  *tls.CertificateVerificationError
		rerr  tls.RecordHeaderError
		uaerr x509.UnknownAuthorityError
		herr  x509.HostnameError
		cerr  x509.CertificateInvalidError
	)
	return errors.As(err, &verr) ||
		errors.As(err, &rerr) ||
		errors.As(err, &uaerr) ||
		errors.As(err, &herr) ||
		errors.As(err, &cerr)
}
