package core

import (
	"fmt"
	"sort"
	"strings"

	mm "github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	pep440 "github.com/aquasecurity/go-pep440-version"
	debversion "github.com/knqyf263/go-deb-version"

	"depman/internal/types"
)

const latestVersion = "latest"

// VersionMatcher selects versions from resolver listings. Each resolver
// orders its versions with its own scheme.
type VersionMatcher struct{}

func NewVersionMatcher() VersionMatcher {
	return VersionMatcher{}
}

// Best returns the highest available version matching expr. The boolean is
// false when no version matches. Supported expressions: empty or "latest",
// an exact version, an Ivy style prefix ("1.2.+") and scheme specific
// constraints (semver ranges, PEP 440 specifiers, Debian operators).
func (m VersionMatcher) Best(scheme types.VersionScheme, expr string, available []string) (string, bool, error) {
	expr = strings.TrimSpace(expr)
	if len(available) == 0 {
		return "", false, nil
	}
	for _, version := range available {
		if version == expr {
			return version, true, nil
		}
	}
	cache := newVersionCache(scheme)
	var candidates []string
	switch {
	case expr == "" || expr == latestVersion || expr == "+":
		candidates = append(candidates, available...)
	case strings.HasSuffix(expr, "+"):
		prefix := strings.TrimSuffix(expr, "+")
		for _, version := range available {
			if strings.HasPrefix(version, prefix) {
				candidates = append(candidates, version)
			}
		}
	default:
		matched, err := cache.filter(expr, available)
		if err != nil {
			return "", false, err
		}
		candidates = matched
	}
	if len(candidates) == 0 {
		return "", false, nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return cache.compare(candidates[i], candidates[j]) > 0
	})
	return candidates[0], true, nil
}

// versionCache memoizes parsed version objects to avoid repeated parsing
// during constraint evaluation and sorting.
type versionCache struct {
	scheme types.VersionScheme
	sem    map[string]*mm.Version
	deb    map[string]debversion.Version
	pep    map[string]pep440.Version
}

func newVersionCache(scheme types.VersionScheme) *versionCache {
	if scheme == "" {
		scheme = types.VersionSchemeSemver
	}
	return &versionCache{
		scheme: scheme,
		sem:    map[string]*mm.Version{},
		deb:    map[string]debversion.Version{},
		pep:    map[string]pep440.Version{},
	}
}

func (c *versionCache) semVersion(value string) (*mm.Version, error) {
	if parsed, ok := c.sem[value]; ok {
		return parsed, nil
	}
	parsed, err := mm.NewVersion(value)
	if err != nil {
		return nil, err
	}
	c.sem[value] = parsed
	return parsed, nil
}

func (c *versionCache) debVersion(value string) (debversion.Version, error) {
	if parsed, ok := c.deb[value]; ok {
		return parsed, nil
	}
	parsed, err := debversion.NewVersion(value)
	if err != nil {
		return debversion.Version{}, err
	}
	c.deb[value] = parsed
	return parsed, nil
}

func (c *versionCache) pepVersion(value string) (pep440.Version, error) {
	if parsed, ok := c.pep[value]; ok {
		return parsed, nil
	}
	parsed, err := pep440.Parse(value)
	if err != nil {
		return pep440.Version{}, err
	}
	c.pep[value] = parsed
	return parsed, nil
}

// compare returns -1, 0, or 1. Versions the scheme cannot parse sort below
// parseable ones and lexically among themselves.
func (c *versionCache) compare(a string, b string) int {
	var errA, errB error
	result := 0
	switch c.scheme {
	case types.VersionSchemeDebian:
		var v1, v2 debversion.Version
		v1, errA = c.debVersion(a)
		v2, errB = c.debVersion(b)
		if errA == nil && errB == nil {
			result = v1.Compare(v2)
		}
	case types.VersionSchemePEP440:
		var v1, v2 pep440.Version
		v1, errA = c.pepVersion(a)
		v2, errB = c.pepVersion(b)
		if errA == nil && errB == nil {
			result = v1.Compare(v2)
		}
	default:
		var v1, v2 *mm.Version
		v1, errA = c.semVersion(a)
		v2, errB = c.semVersion(b)
		if errA == nil && errB == nil {
			result = v1.Compare(v2)
		}
	}
	switch {
	case errA == nil && errB == nil:
		return result
	case errA != nil && errB == nil:
		return -1
	case errA == nil && errB != nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

// filter keeps the available versions satisfying expr.
func (c *versionCache) filter(expr string, available []string) ([]string, error) {
	switch c.scheme {
	case types.VersionSchemeDebian:
		return c.filterDeb(expr, available)
	case types.VersionSchemePEP440:
		return c.filterPep440(expr, available)
	case types.VersionSchemeSemver:
		return c.filterSemver(expr, available)
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported version scheme %s", c.scheme))
	}
}

func (c *versionCache) filterSemver(expr string, available []string) ([]string, error) {
	constraint, err := mm.NewConstraint(expr)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid semver constraint %q", expr)).
			WithCause(err)
	}
	var out []string
	for _, version := range available {
		parsed, err := c.semVersion(version)
		if err != nil {
			continue
		}
		if constraint.Check(parsed) {
			out = append(out, version)
		}
	}
	return out, nil
}

func (c *versionCache) filterPep440(expr string, available []string) ([]string, error) {
	spec, err := pep440.NewSpecifiers(expr)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid pep440 specifier %q", expr)).
			WithCause(err)
	}
	var out []string
	for _, version := range available {
		parsed, err := c.pepVersion(version)
		if err != nil {
			continue
		}
		if spec.Check(parsed) {
			out = append(out, version)
		}
	}
	return out, nil
}

func (c *versionCache) filterDeb(expr string, available []string) ([]string, error) {
	constraints, err := ParseConstraints(expr)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, version := range available {
		ok, err := c.satisfiesDeb(version, constraints)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, version)
		}
	}
	return out, nil
}

// satisfiesDeb checks a Debian version against every constraint. Versions
// that do not parse never satisfy.
func (c *versionCache) satisfiesDeb(version string, constraints []types.Constraint) (bool, error) {
	v, err := c.debVersion(version)
	if err != nil {
		return false, nil
	}
	for _, constraint := range constraints {
		bound, err := c.debVersion(constraint.Version)
		if err != nil {
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid debian version %q", constraint.Version)).
				WithCause(err)
		}
		switch constraint.Op {
		case types.ConstraintOpEq, types.ConstraintOpEq2:
			if !v.Equal(bound) {
				return false, nil
			}
		case types.ConstraintOpNe:
			if v.Equal(bound) {
				return false, nil
			}
		case types.ConstraintOpGte:
			if v.LessThan(bound) {
				return false, nil
			}
		case types.ConstraintOpLte:
			if v.GreaterThan(bound) {
				return false, nil
			}
		case types.ConstraintOpGt:
			if !v.GreaterThan(bound) {
				return false, nil
			}
		case types.ConstraintOpLt:
			if !v.LessThan(bound) {
				return false, nil
			}
		default:
			return false, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported constraint operator %s", constraint.Op))
		}
	}
	return true, nil
}
