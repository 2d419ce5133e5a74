// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"regexp"
	"strings"
)

var (
	mallIDPattern = regexp.MustCompile(`^[a-z0-9-]{3,20}$`)
	domainPattern = regexp.MustCompile(`^[a-z0-9-]+(\.[a-z0-9-]+)*(:\d{1,5})?$`)
)

// ValidMallID reports whether id is an acceptable mall slug.
func ValidMallID(id string) bool {
	return mallIDPattern.MatchString(id)
}

// NormalizeDomain reduces a domain or URL to the lowercase host[:port] form
// stored in Mall.AllowedDomains. The scheme, any userinfo, a leading "www."
// and everything from the first path, query or fragment delimiter are dropped.
func NormalizeDomain(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimPrefix(s, "www.")

	if !domainPattern.MatchString(s) {
		return "", ErrInvalidDomain
	}
	return s, nil
}

// NormalizeDomains normalizes every entry and removes duplicates, keeping
// first-seen order.
func NormalizeDomains(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, d := range raw {
		n, err := NormalizeDomain(d)
		if err != nil {
			return nil, err
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out, nil
}
