package fetch

import (
	"context"
	"net/url"
	"strings"
)

// Platform identifies a job board whose posting pages have a known layout.
type Platform string

// Known job board platforms
const (
	PlatformGreenhouse Platform = "greenhouse"
	PlatformLever      Platform = "lever"
	PlatformWorkday    Platform = "workday"
	PlatformRemoteOK   Platform = "remoteok"
	PlatformUnknown    Platform = "unknown"
)

type platformRule struct {
	platform Platform
	hosts    []string
	content  []string
	noise    []string
}

var platformRules = []platformRule{
	{
		platform: PlatformGreenhouse,
		hosts:    []string{"greenhouse.io"},
		content:  []string{".job__description.body", ".job__description", "#content"},
		noise:    []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section"},
	},
	{
		platform: PlatformLever,
		hosts:    []string{"lever.co"},
		content:  []string{".posting-page", ".posting-description", ".content"},
		noise:    []string{".apply-section", ".posting-apply"},
	},
	{
		platform: PlatformWorkday,
		hosts:    []string{"workday.com", "myworkdayjobs.com"},
		content:  []string{"[data-automation-id='jobDescription']", ".job-description"},
		noise:    []string{"[data-automation-id='applyButton']"},
	},
	{
		platform: PlatformRemoteOK,
		hosts:    []string{"remoteok.io", "remoteok.com"},
		content:  []string{".description", ".expandContents"},
		noise:    []string{".apply", ".share"},
	},
}

// noise common to every job board: application forms and legal boilerplate
var commonNoise = []string{
	"form",
	".application-form",
	".eeo-statement",
	".legal-disclosure",
	".social-share",
	".cookie-consent",
}

// genericContent is tried for pages from unknown platforms.
var genericContent = []string{
	".job-description",
	"#job-description",
	".posting-content",
	".job-details",
	"[data-testid='job-description']",
	"main",
	"article",
	"#content",
}

func ruleFor(platform Platform) (platformRule, bool) {
	for _, r := range platformRules {
		if r.platform == platform {
			return r, true
		}
	}
	return platformRule{}, false
}

// DetectPlatform identifies the job board of a posting URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(parsed.Hostname())
	for _, r := range platformRules {
		for _, h := range r.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return r.platform
			}
		}
	}
	return PlatformUnknown
}

// ContentSelectors returns the posting-body selectors for platform, most specific first.
func ContentSelectors(platform Platform) []string {
	if r, ok := ruleFor(platform); ok {
		return append(append([]string{}, r.content...), genericContent...)
	}
	return append([]string{}, genericContent...)
}

// NoiseSelectors returns the elements to strip from a posting page of platform.
func NoiseSelectors(platform Platform) []string {
	noise := append([]string{}, commonNoise...)
	if r, ok := ruleFor(platform); ok {
		noise = append(noise, r.noise...)
	}
	return noise
}

// PostingText fetches a posting page and returns its body text using platform selectors.
func PostingText(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return result, err
	}
	platform := DetectPlatform(urlStr)
	text, err := ExtractMainText(result.Body, ContentSelectors(platform), NoiseSelectors(platform)...)
	if err != nil {
		return result, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}
	result.Text = text
	return result, nil
}
