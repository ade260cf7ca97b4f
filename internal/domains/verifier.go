package domains

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vendix/domain-gateway/internal/dnscheck"
	"github.com/vendix/domain-gateway/internal/events"
	"github.com/vendix/domain-gateway/internal/metrics"
	"github.com/vendix/domain-gateway/internal/storage"
)

// DNS check names accepted in VerifyOptions.Checks.
const (
	CheckTXT   = "txt"
	CheckCNAME = "cname"
	CheckA     = "a"
	CheckAAAA  = "aaaa"
)

// ErrCodeDNSCheckFailed marks a verification result where at least one
// counted check failed.
const ErrCodeDNSCheckFailed = "DNS_CHECK_FAILED"

// NextActionIssueCertificate signals the certificate issuance pipeline that a
// domain just reached pending_ssl.
const NextActionIssueCertificate = "issue_certificate"

var (
	// ErrNotVerifiable is returned when verification is requested for a
	// domain type without a DNS verification path.
	ErrNotVerifiable = errors.New("domain type does not support verification")

	// ErrUnknownCheck is returned when VerifyOptions.Checks names a check
	// that doesn't exist.
	ErrUnknownCheck = errors.New("unknown DNS check")
)

// checkOrder fixes the execution order of requested checks.
var checkOrder = []string{CheckTXT, CheckCNAME, CheckA, CheckAAAA}

// VerifyOptions controls a verification run.
type VerifyOptions struct {
	Checks        []string `json:"checks,omitempty"`
	Force         bool     `json:"force,omitempty"`
	ExpectedCNAME string   `json:"expectedCname,omitempty"`
	ExpectedA     []string `json:"expectedA,omitempty"`
}

// CheckResult is the outcome of a single DNS check.
// A lookup failure is recorded here, never raised to the caller.
type CheckResult struct {
	Passed  bool     `json:"passed"`
	Records []string `json:"records,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// VerificationResult is the aggregate outcome of a verification run.
type VerificationResult struct {
	Hostname       string                 `json:"hostname"`
	Verified       bool                   `json:"verified"`
	Checks         map[string]CheckResult `json:"checks"`
	SuggestedFixes []string               `json:"suggestedFixes,omitempty"`
	StatusBefore   storage.DomainStatus   `json:"statusBefore"`
	StatusAfter    storage.DomainStatus   `json:"statusAfter"`
	NextAction     string                 `json:"nextAction,omitempty"`
	ErrorCode      string                 `json:"errorCode,omitempty"`
}

// VerifierStorage is the subset of storage the verifier needs.
type VerifierStorage interface {
	GetDomainByHostname(ctx context.Context, hostname string) (*storage.DomainSetting, error)
	UpdateDomainVerification(ctx context.Context, hostname string, v *storage.VerificationUpdate) error
}

// VerifyTargets are the platform defaults a custom domain must point at.
type VerifyTargets struct {
	CNAME string   // edge hostname, e.g. "edge.vendix.app"
	A     []string // edge IPv4 addresses
}

// Verifier drives a domain's status through DNS-check outcomes toward active.
type Verifier struct {
	store   VerifierStorage
	dns     dnscheck.Resolver
	bus     *events.Bus
	targets VerifyTargets
	logger  *slog.Logger
	now     func() time.Time
}

// NewVerifier creates a Verifier.
// If logger is nil, slog.Default() will be used.
func NewVerifier(store VerifierStorage, dns dnscheck.Resolver, bus *events.Bus, targets VerifyTargets, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		store:   store,
		dns:     dns,
		bus:     bus,
		targets: targets,
		logger:  logger,
		now:     time.Now,
	}
}

// Verify runs the requested DNS checks (default: txt + cname) against hostname
// and applies the status transition rules.
//
// Verification is rejected outright for non-verifiable domain types. An
// already-active domain short-circuits to verified=true without any DNS calls
// unless opts.Force is set. All requested checks always run; failures are
// accumulated, not short-circuited.
func (v *Verifier) Verify(ctx context.Context, hostname string, opts VerifyOptions) (*VerificationResult, error) {
	hostname = NormalizeHostname(hostname)

	domain, err := v.store.GetDomainByHostname(ctx, hostname)
	if err != nil {
		return nil, err
	}

	if !domain.Verifiable() {
		return nil, fmt.Errorf("%w: %s", ErrNotVerifiable, domain.DomainType)
	}

	requested, err := requestedChecks(opts.Checks)
	if err != nil {
		return nil, err
	}

	// Idempotent no-op for already-active domains - avoids unnecessary DNS load.
	if domain.Status == storage.StatusActive && !opts.Force {
		v.logger.Debug("verification short-circuit, domain already active", "hostname", hostname)
		return &VerificationResult{
			Hostname:     hostname,
			Verified:     true,
			Checks:       map[string]CheckResult{},
			StatusBefore: storage.StatusActive,
			StatusAfter:  storage.StatusActive,
		}, nil
	}

	results := make(map[string]CheckResult, len(requested))
	var fixes []string
	for _, check := range checkOrder {
		if !requested[check] {
			continue
		}
		result, fix := v.runCheck(ctx, check, domain, opts)
		results[check] = result

		outcome := "pass"
		if !result.Passed {
			outcome = "fail"
			if fix != "" {
				fixes = append(fixes, fix)
			}
		}
		metrics.RecordDNSCheck(check, outcome)
	}

	// aaaa is informational only and never contributes to the aggregate.
	allPassed := true
	for name, result := range results {
		if name == CheckAAAA {
			continue
		}
		if !result.Passed {
			allPassed = false
		}
	}

	statusBefore := domain.Status
	statusAfter := statusBefore
	nextAction := ""
	switch {
	case allPassed && (statusBefore == storage.StatusPendingDNS || statusBefore == storage.StatusFailedDNS):
		statusAfter = storage.StatusPendingSSL
		nextAction = NextActionIssueCertificate
	case !allPassed && statusBefore != storage.StatusActive:
		statusAfter = storage.StatusFailedDNS
	}
	// A forced re-verification of an active domain that now fails leaves the
	// status untouched: an active domain is never demoted automatically.

	var lastError *string
	if len(fixes) > 0 {
		lastError = &fixes[0]
	}
	update := &storage.VerificationUpdate{
		Status:         statusAfter,
		LastVerifiedAt: v.now().UTC(),
		LastError:      lastError,
	}
	if err := v.store.UpdateDomainVerification(ctx, hostname, update); err != nil {
		return nil, err
	}

	if v.bus != nil {
		v.bus.Publish(events.TopicDomainCacheInvalidate, events.DomainInvalidation{Hostname: hostname})
	}

	result := &VerificationResult{
		Hostname:       hostname,
		Verified:       allPassed,
		Checks:         results,
		SuggestedFixes: fixes,
		StatusBefore:   statusBefore,
		StatusAfter:    statusAfter,
		NextAction:     nextAction,
	}
	if !allPassed {
		result.ErrorCode = ErrCodeDNSCheckFailed
	}

	outcome := "failed"
	if allPassed {
		outcome = "verified"
	}
	metrics.RecordVerification(outcome)
	v.logger.Info("domain verification run",
		"hostname", hostname,
		"verified", allPassed,
		"status_before", statusBefore,
		"status_after", statusAfter,
		"checks", len(results),
	)

	return result, nil
}

// runCheck executes one DNS check and returns its result plus a remediation
// hint when it failed. Lookup errors become data in the result.
func (v *Verifier) runCheck(ctx context.Context, check string, domain *storage.DomainSetting, opts VerifyOptions) (CheckResult, string) {
	switch check {
	case CheckTXT:
		return v.checkTXT(ctx, domain)
	case CheckCNAME:
		return v.checkCNAME(ctx, domain.Hostname, opts.ExpectedCNAME)
	case CheckA:
		return v.checkA(ctx, domain.Hostname, opts.ExpectedA)
	case CheckAAAA:
		return v.checkAAAA(ctx, domain.Hostname)
	}
	// Unreachable: requestedChecks validates names.
	return CheckResult{}, ""
}

// checkTXT passes iff the stored verification token is a substring of at
// least one TXT value.
func (v *Verifier) checkTXT(ctx context.Context, domain *storage.DomainSetting) (CheckResult, string) {
	token := ""
	if domain.VerificationToken != nil {
		token = *domain.VerificationToken
	}
	fix := fmt.Sprintf("Add a TXT record for %s containing %q", domain.Hostname, token)

	if token == "" {
		return CheckResult{Passed: false, Error: dnscheck.CodeFailure}, fix
	}

	records, err := v.dns.LookupTXT(ctx, domain.Hostname)
	if err != nil {
		return CheckResult{Passed: false, Error: dnscheck.ErrorCode(err)}, fix
	}

	for _, record := range records {
		if strings.Contains(record, token) {
			return CheckResult{Passed: true, Records: records}, ""
		}
	}
	return CheckResult{Passed: false, Records: records}, fix
}

// checkCNAME passes iff the canonical name matches the expected edge target.
func (v *Verifier) checkCNAME(ctx context.Context, hostname, expected string) (CheckResult, string) {
	if expected == "" {
		expected = v.targets.CNAME
	}
	expected = strings.TrimSuffix(strings.ToLower(expected), ".")
	fix := fmt.Sprintf("Point a CNAME record for %s at %s", hostname, expected)

	cname, err := v.dns.LookupCNAME(ctx, hostname)
	if err != nil {
		return CheckResult{Passed: false, Error: dnscheck.ErrorCode(err)}, fix
	}

	normalized := strings.TrimSuffix(strings.ToLower(cname), ".")
	if normalized == expected {
		return CheckResult{Passed: true, Records: []string{normalized}}, ""
	}
	return CheckResult{Passed: false, Records: []string{normalized}}, fix
}

// checkA passes iff the resolved IPv4 set intersects the expected set.
func (v *Verifier) checkA(ctx context.Context, hostname string, expected []string) (CheckResult, string) {
	if len(expected) == 0 {
		expected = v.targets.A
	}
	fix := fmt.Sprintf("Add an A record for %s pointing at %s", hostname, strings.Join(expected, " or "))

	addrs, err := v.dns.LookupA(ctx, hostname)
	if err != nil {
		return CheckResult{Passed: false, Error: dnscheck.ErrorCode(err)}, fix
	}

	expectedSet := make(map[string]bool, len(expected))
	for _, ip := range expected {
		expectedSet[ip] = true
	}
	for _, addr := range addrs {
		if expectedSet[addr] {
			return CheckResult{Passed: true, Records: addrs}, ""
		}
	}
	return CheckResult{Passed: false, Records: addrs}, fix
}

// checkAAAA is informational only: it records what IPv6 presence looks like
// but never contributes to the aggregate outcome or the suggested fixes.
func (v *Verifier) checkAAAA(ctx context.Context, hostname string) (CheckResult, string) {
	addrs, err := v.dns.LookupAAAA(ctx, hostname)
	if err != nil {
		return CheckResult{Passed: false, Error: dnscheck.ErrorCode(err)}, ""
	}
	return CheckResult{Passed: true, Records: addrs}, ""
}

// requestedChecks validates and normalizes the check subset.
// An empty request defaults to txt + cname.
func requestedChecks(checks []string) (map[string]bool, error) {
	if len(checks) == 0 {
		return map[string]bool{CheckTXT: true, CheckCNAME: true}, nil
	}

	requested := make(map[string]bool, len(checks))
	for _, check := range checks {
		name := strings.ToLower(strings.TrimSpace(check))
		switch name {
		case CheckTXT, CheckCNAME, CheckA, CheckAAAA:
			requested[name] = true
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, check)
		}
	}
	return requested, nil
}
