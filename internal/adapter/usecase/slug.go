package usecase

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-zA-Z0-9-]+`)
	dashRuns     = regexp.MustCompile(`-+`)
)

const maxSlugLen = 50

// slugFromDestination derives a readable slug base from the destination URL
// and video id, e.g. "skool-the-blueprint-dQw4w9" → lowercased. Falls back
// to "link-{video_id}" when the destination does not parse.
func slugFromDestination(destinationURL, videoID string) string {
	u, err := url.Parse(destinationURL)
	if err != nil || u.Hostname() == "" {
		return strings.ToLower("link-" + videoID)
	}

	domainName := strings.TrimPrefix(u.Hostname(), "www.")
	if i := strings.Index(domainName, "."); i > 0 {
		domainName = domainName[:i]
	}

	slug := domainName
	if path := strings.Trim(u.Path, "/"); path != "" {
		cleaned := nonSlugChars.ReplaceAllString(path, "-")
		cleaned = strings.Trim(dashRuns.ReplaceAllString(cleaned, "-"), "-")
		if cleaned != "" {
			slug += "-" + cleaned
		}
	}

	suffix := videoID
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	slug += "-" + suffix

	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return strings.ToLower(slug)
}

// slugCandidate returns the base slug on the first attempt and
// counter-suffixed variants ("base-2", "base-3", …) on retries.
func slugCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt+1)
}
