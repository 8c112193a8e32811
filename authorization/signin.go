package authorization

import (
	"fmt"
	"net/url"
	"strings"

	"profile_service/errors"
)

const DefaultRedirect = "/profile"

// SignInRedirector builds the identity provider's OAuth authorize URL.
type SignInRedirector struct {
	authorizeURL string
	providers    map[string]struct{}
}

func NewSignInRedirector(authorizeURL string, providers []string) (*SignInRedirector, error) {
	if _, err := url.Parse(authorizeURL); err != nil {
		return nil, fmt.Errorf("authorize url: %w", err)
	}
	allowed := make(map[string]struct{}, len(providers))
	for _, provider := range providers {
		provider = strings.ToLower(strings.TrimSpace(provider))
		if provider != "" {
			allowed[provider] = struct{}{}
		}
	}
	return &SignInRedirector{authorizeURL: authorizeURL, providers: allowed}, nil
}

// URL returns where to send the browser for provider. redirect must be a
// path on this site; it defaults to the profile view.
func (s *SignInRedirector) URL(provider, redirect string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if _, ok := s.providers[provider]; !ok {
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownProvider, provider)
	}

	if redirect == "" {
		redirect = DefaultRedirect
	}
	if !isLocalPath(redirect) {
		return "", fmt.Errorf("%w: %q", errors.ErrInvalidRedirect, redirect)
	}

	target, err := url.Parse(s.authorizeURL)
	if err != nil {
		return "", err
	}
	query := target.Query()
	query.Set("provider", provider)
	query.Set("redirect_to", redirect)
	target.RawQuery = query.Encode()
	return target.String(), nil
}

func isLocalPath(redirect string) bool {
	if !strings.HasPrefix(redirect, "/") || strings.HasPrefix(redirect, "//") || strings.HasPrefix(redirect, "/\\") {
		return false
	}
	parsed, err := url.Parse(redirect)
	return err == nil && parsed.Scheme == "" && parsed.Host == ""
}
