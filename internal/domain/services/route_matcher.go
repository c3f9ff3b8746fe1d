package services

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/AtRiskMedia/admini-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/admini-go/internal/domain/entities/rendering"
)

// RouteMatch is the page selected for a path and its captured parameters.
type RouteMatch struct {
	Page   *content.PageDefinition
	Params *rendering.ParameterMap
}

type compiledRoute struct {
	pattern *regexp.Regexp
	names   []string
}

var compiledRoutes sync.Map // slug -> *compiledRoute

var captureSegment = regexp.MustCompile(`:([^/]+)`)

// NormalizePath strips leading and trailing slashes.
func NormalizePath(path string) string {
	return strings.Trim(path, "/")
}

func compileRoute(slug string) *compiledRoute {
	if cached, ok := compiledRoutes.Load(slug); ok {
		return cached.(*compiledRoute)
	}

	normalized := NormalizePath(slug)
	var (
		b     strings.Builder
		names []string
		last  int
	)
	b.WriteString("^")
	for _, loc := range captureSegment.FindAllStringSubmatchIndex(normalized, -1) {
		b.WriteString(regexp.QuoteMeta(normalized[last:loc[0]]))
		b.WriteString("([^/]+)")
		names = append(names, normalized[loc[2]:loc[3]])
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(normalized[last:]))
	b.WriteString("$")

	route := &compiledRoute{pattern: regexp.MustCompile(b.String()), names: names}
	actual, _ := compiledRoutes.LoadOrStore(slug, route)
	return actual.(*compiledRoute)
}

// OrderRoutes returns the pages with static slugs first, keeping the
// relative order inside each group.
func OrderRoutes(pages []content.PageDefinition) []*content.PageDefinition {
	ordered := make([]*content.PageDefinition, len(pages))
	for i := range pages {
		ordered[i] = &pages[i]
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return !ordered[i].IsDynamic() && ordered[j].IsDynamic()
	})
	return ordered
}

// MatchRoute finds the first page whose slug matches path. Captured segment
// values are returned left to right under their parameter names.
func MatchRoute(pages []content.PageDefinition, path string) (*RouteMatch, bool) {
	target := NormalizePath(path)
	for _, page := range OrderRoutes(pages) {
		route := compileRoute(page.Slug)
		groups := route.pattern.FindStringSubmatch(target)
		if groups == nil {
			continue
		}
		params := &rendering.ParameterMap{}
		for i, name := range route.names {
			params.Set(name, groups[i+1])
		}
		return &RouteMatch{Page: page, Params: params}, true
	}
	return nil, false
}

// PagePath returns the link for a page with params substituted into its
// slug, e.g. "users/:id" with id=7 becomes "/users/7".
func PagePath(page *content.PageDefinition, params *rendering.ParameterMap) string {
	if page == nil {
		return "#"
	}
	return "/" + NormalizePath(ResolvePlaceholders(page.Slug, params))
}
