package access

// Package access implements the per-role path rule tables that gate every
// inbound request. Rules are static configuration compiled once at startup;
// evaluation is a pure, non-blocking computation.

import (
	"fmt"
	"regexp"
	"strings"

	domainauth "github.com/retailops/pos-ui-api/internal/domain/auth"
)

// Decision is the outcome of evaluating a path against a role's rules.
type Decision int

const (
	// Deny blocks the request and redirects to the role's landing path.
	Deny Decision = iota
	// Allow forwards the request with role/branch annotations.
	Allow
)

// String returns a lowercase label suitable for logs and metrics tags.
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Rule holds the two ordered pattern lists for one role. Restricted patterns
// always win: a path matching any restriction is denied even when an allow
// pattern also matches.
type Rule struct {
	AllowedPaths    []string
	RestrictedPaths []string
}

// Table maps each role to its rule. A role absent from the table denies
// every non-public path, as does a role with an empty allow list.
type Table map[domainauth.Role]Rule

// Compile validates every pattern in the table and returns an evaluator.
// A malformed pattern is a configuration error and must surface at startup,
// never silently at request time.
func (t Table) Compile() (*CompiledTable, error) {
	compiled := &CompiledTable{rules: make(map[domainauth.Role]compiledRule, len(t))}
	for role, rule := range t {
		cr := compiledRule{
			restricted: make([]matcher, 0, len(rule.RestrictedPaths)),
			allowed:    make([]matcher, 0, len(rule.AllowedPaths)),
		}
		for _, p := range rule.RestrictedPaths {
			m, err := compilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("role %s: restricted pattern %q: %w", role, p, err)
			}
			cr.restricted = append(cr.restricted, m)
		}
		for _, p := range rule.AllowedPaths {
			m, err := compilePattern(p)
			if err != nil {
				return nil, fmt.Errorf("role %s: allowed pattern %q: %w", role, p, err)
			}
			cr.allowed = append(cr.allowed, m)
		}
		compiled.rules[role] = cr
	}
	return compiled, nil
}

// CompiledTable is an immutable, request-safe evaluator built from a Table.
type CompiledTable struct {
	rules map[domainauth.Role]compiledRule
}

type compiledRule struct {
	restricted []matcher
	allowed    []matcher
}

// Evaluate decides whether role may reach path. Restrictions are tested
// first, in list order, and short-circuit to Deny; only then are allow
// patterns tested. No match on either list is an expected outcome (Deny),
// not a fault.
func (c *CompiledTable) Evaluate(role domainauth.Role, path string) Decision {
	rule, ok := c.rules[role]
	if !ok {
		return Deny
	}
	for _, m := range rule.restricted {
		if m(path) {
			return Deny
		}
	}
	for _, m := range rule.allowed {
		if m(path) {
			return Allow
		}
	}
	return Deny
}

// matcher tests a single pattern against a full request path.
type matcher func(path string) bool

// Match reports whether a single pattern matches a path. It compiles the
// pattern on the fly; hot paths should go through Table.Compile instead.
func Match(pattern, path string) bool {
	m, err := compilePattern(pattern)
	if err != nil {
		return false
	}
	return m(path)
}

// compilePattern builds a matcher for one pattern. Matching is case-sensitive
// and exact on slashes; trailing slashes are not normalized. Supported forms,
// tried in order:
//  1. "*" matches any path.
//  2. Exact string equality.
//  3. Patterns containing "*": each "*" becomes a match-anything token,
//     anchored at both ends ("/products/*" matches "/products/1/edit").
//  4. Patterns containing a bracketed segment: each "[...]" segment becomes a
//     single-path-segment token ("/orders/[id]" matches "/orders/42" but not
//     "/orders/42/items" or "/orders//").
//  5. Anything else never matches beyond exact equality.
func compilePattern(pattern string) (matcher, error) {
	if pattern == "*" {
		return func(string) bool { return true }, nil
	}

	switch {
	case strings.Contains(pattern, "*"):
		expr := "^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, err
		}
		return func(path string) bool { return pattern == path || re.MatchString(path) }, nil

	case strings.Contains(pattern, "["):
		expr, err := bracketExpr(pattern)
		if err != nil {
			return nil, err
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, err
		}
		return func(path string) bool { return pattern == path || re.MatchString(path) }, nil

	default:
		return func(path string) bool { return pattern == path }, nil
	}
}

// bracketExpr turns a pattern with [placeholder] segments into an anchored
// regular expression where each placeholder matches exactly one non-empty
// path segment.
func bracketExpr(pattern string) (string, error) {
	segments := strings.Split(pattern, "/")
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]") && len(seg) > 2 {
			parts = append(parts, "[^/]+")
			continue
		}
		if strings.ContainsAny(seg, "[]") {
			return "", fmt.Errorf("malformed placeholder segment %q", seg)
		}
		parts = append(parts, regexp.QuoteMeta(seg))
	}
	return "^" + strings.Join(parts, "/") + "$", nil
}
