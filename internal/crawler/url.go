package crawler

import "net/url"

// ResolveURL resolves href against the configured base URL, falling back to
// the page URL the href was found on. Unparseable inputs return href as-is.
func ResolveURL(base, pageURL, href string) string {
	ref := base
	if ref == "" {
		ref = pageURL
	}
	parsedBase, err := url.Parse(ref)
	if err != nil {
		return href
	}
	parsedHref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return parsedBase.ResolveReference(parsedHref).String()
}
