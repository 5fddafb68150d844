package process

import (
	"errors"
	"net/url"

	"github.com/PuerkitoBio/purell"
)

var ErrNotAbsolute = errors.New("url must have a scheme and a host")

const normalizeFlags = purell.FlagLowercaseScheme |
	purell.FlagLowercaseHost |
	purell.FlagRemoveDefaultPort |
	purell.FlagRemoveFragment |
	purell.FlagDecodeUnnecessaryEscapes |
	purell.FlagSortQuery |
	purell.FlagRemoveDuplicateSlashes |
	purell.FlagRemoveDotSegments

// Normalize canonicalises an absolute URL. The fragment is always dropped and
// an empty path becomes "/", so "http://a.com" and "http://a.com/#top" are the
// same key.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", ErrNotAbsolute
	}

	normalized := purell.NormalizeURL(u, normalizeFlags)

	n, err := url.Parse(normalized)
	if err != nil {
		return "", err
	}
	if n.Path == "" && n.Opaque == "" {
		n.Path = "/"
	}
	n.Fragment = ""
	n.RawFragment = ""
	return n.String(), nil
}

// Host returns the network location (host plus any non-default port) of a
// normalized URL.
func Host(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return u.Host
}
