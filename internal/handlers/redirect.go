package handlers

import (
	"net/url"
	"strings"
)

// safeNextURL validates a caller-supplied redirect target against
// open-redirect abuse. Only relative paths within this host are allowed;
// anything carrying a scheme or host (including protocol-relative "//"
// and backslash tricks) silently falls back.
func safeNextURL(target, fallback string) string {
	if target == "" {
		return fallback
	}

	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}

	u, err := url.Parse(target)
	if err != nil {
		return fallback
	}
	if u.Scheme != "" || u.Host != "" {
		return fallback
	}
	if !strings.HasPrefix(u.Path, "/") {
		return fallback
	}

	return target
}
