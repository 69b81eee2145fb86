package middleware

import (
	"net/http"
	"regexp"
	"strings"

	"mediashelf/media-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Static files and framework internals never reach the gate, unless they sit
// under an API prefix
var (
	staticPathRe = regexp.MustCompile(`(?i)^/_next(?:/|$)|\.(?:html?|css|js|jpe?g|webp|png|gif|svg|ttf|woff2?|ico|csv|docx?|xlsx?|zip|webmanifest)$`)
	apiPathRe    = regexp.MustCompile(`^/(?:api|trpc)(?:/|$)`)
)

// AccessPolicy is the route allow-list evaluated for every request.
// Patterns are exact paths, a trailing "(.*)" matches any continuation.
type AccessPolicy struct {
	PublicPages []string
	PublicAPI   []string
	Landing     string
	SignIn      string

	publicPages []*regexp.Regexp
	publicAPI   []*regexp.Regexp
}

// NewAccessPolicy compiles the given patterns. Landing and sign in default to
// /home and /sign-in when empty.
func NewAccessPolicy(publicPages, publicAPI []string, landing, signIn string) *AccessPolicy {
	if landing == "" {
		landing = "/home"
	}
	if signIn == "" {
		signIn = "/sign-in"
	}

	return &AccessPolicy{
		PublicPages: publicPages,
		PublicAPI:   publicAPI,
		Landing:     landing,
		SignIn:      signIn,
		publicPages: compilePatterns(publicPages),
		publicAPI:   compilePatterns(publicAPI),
	}
}

// DefaultAccessPolicy returns the policy used when nothing is configured
func DefaultAccessPolicy() *AccessPolicy {
	return NewAccessPolicy(
		[]string{"/sign-in(.*)", "/sign-up(.*)", "/", "/home"},
		[]string{"/api/video"},
		"/home",
		"/sign-in",
	)
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		rest := ""
		if base, ok := strings.CutSuffix(p, "(.*)"); ok {
			p = base
			rest = "(?:.*)"
		}

		p = strings.TrimSuffix(p, "/")
		out = append(out, regexp.MustCompile("^"+regexp.QuoteMeta(p)+rest+"/?$"))
	}

	return out
}

func matchAny(res []*regexp.Regexp, path string) bool {
	for _, re := range res {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// Excluded reports whether path skips the gate entirely
func (p *AccessPolicy) Excluded(path string) bool {
	if apiPathRe.MatchString(path) {
		return false
	}

	return staticPathRe.MatchString(path)
}

func (p *AccessPolicy) IsPublicPage(path string) bool {
	return matchAny(p.publicPages, path)
}

func (p *AccessPolicy) IsPublicAPI(path string) bool {
	return matchAny(p.publicAPI, path)
}

// Decide returns the location to redirect to, or an empty string when the
// request may continue
func (p *AccessPolicy) Decide(path string, authenticated bool) string {
	public := p.IsPublicPage(path)

	if authenticated {
		if public && path != p.Landing {
			return p.Landing
		}

		return ""
	}

	if !public && !p.IsPublicAPI(path) {
		return p.SignIn
	}

	return ""
}

// NewAccessGateMiddleware resolves the caller with r and applies the policy.
// Authenticated callers get their id stored as userID.
func NewAccessGateMiddleware(policy *AccessPolicy, r security.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if policy.Excluded(path) {
			c.Next()
			return
		}

		userID, err := r.Resolve(c.Request)
		if err != nil && err != security.ErrNoSession {
			zap.L().Debug("Rejected session token", zap.String("path", path), zap.Error(err))
		}

		authenticated := err == nil && userID != ""
		if authenticated {
			c.Set("userID", userID)
		}

		if to := policy.Decide(path, authenticated); to != "" {
			c.Redirect(http.StatusTemporaryRedirect, to)
			c.Abort()
			return
		}

		c.Next()
	}
}
