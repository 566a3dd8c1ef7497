package httpserver

import (
	"net/http"
	"time"
)

// Cookie names match what the frontend already expects.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// CookieConfig controls the token cookie attributes. Both cookies are
// always HttpOnly; scripts never see the tokens.
type CookieConfig struct {
	Secure     bool
	SameSite   http.SameSite
	Domain     string
	Path       string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func (cc CookieConfig) path() string {
	if cc.Path == "" {
		return "/"
	}
	return cc.Path
}

func (cc CookieConfig) sameSite() http.SameSite {
	if cc.SameSite == 0 {
		return http.SameSiteLaxMode
	}
	return cc.SameSite
}

func (cc CookieConfig) tokenCookie(name, value string, ttl time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     cc.path(),
		Domain:   cc.Domain,
		MaxAge:   int(ttl.Seconds()),
		Secure:   cc.Secure,
		HttpOnly: true,
		SameSite: cc.sameSite(),
	}
}

func (cc CookieConfig) accessCookie(token string) *http.Cookie {
	return cc.tokenCookie(AccessTokenCookie, token, cc.AccessTTL)
}

func (cc CookieConfig) refreshCookie(token string) *http.Cookie {
	return cc.tokenCookie(RefreshTokenCookie, token, cc.RefreshTTL)
}

func (cc CookieConfig) expiredCookie(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     cc.path(),
		Domain:   cc.Domain,
		MaxAge:   -1,
		Secure:   cc.Secure,
		HttpOnly: true,
		SameSite: cc.sameSite(),
	}
}
