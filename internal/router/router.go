package router

import (
	"regexp"
	"sync"
)

// Rule rewrites a request path matching Pattern into the sitemap
// request value. Target may reference capture groups as $1.
type Rule struct {
	Pattern string
	Target  string
}

// DefaultRules map the friendly sitemap paths.
var DefaultRules = []Rule{
	{Pattern: `^/sitemap\.xml$`, Target: "index"},
	{Pattern: `^/sitemap-([a-z0-9_-]+)\.xml$`, Target: "$1"},
	{Pattern: `^/sitemap\.xsl$`, Target: "xsl"},
}

type compiledRule struct {
	re     *regexp.Regexp
	target string
}

// Router resolves request paths through a compiled rewrite table.
// Flush rebuilds the table from the registered rules.
type Router struct {
	mu       sync.RWMutex
	rules    []Rule
	compiled []compiledRule
	flushes  int
}

// New compiles rules, failing on an invalid pattern.
func New(rules ...Rule) (*Router, error) {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	r := &Router{rules: append([]Rule(nil), rules...)}
	compiled, err := compile(r.rules)
	if err != nil {
		return nil, err
	}
	r.compiled = compiled
	return r, nil
}

// Resolve returns the request value for path, and false when no rule
// matches. The first matching rule wins.
func (r *Router) Resolve(path string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rule := range r.compiled {
		m := rule.re.FindStringSubmatchIndex(path)
		if m == nil {
			continue
		}
		return string(rule.re.ExpandString(nil, rule.target, path, m)), true
	}
	return "", false
}

// Flush recompiles the rewrite table.
func (r *Router) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()

	// rules were validated in New
	compiled, _ := compile(r.rules)
	r.compiled = compiled
	r.flushes++
}

// Flushes reports how many times the table was rebuilt.
func (r *Router) Flushes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.flushes
}

func compile(rules []Rule) ([]compiledRule, error) {
	out := make([]compiledRule, 0, len(rules))
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		out = append(out, compiledRule{re: re, target: rule.Target})
	}
	return out, nil
}
