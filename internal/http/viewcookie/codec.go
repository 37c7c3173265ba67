// Package viewcookie remembers, per resource, which list view instance a
// browser activated last. Values are signed so a view id seen in a URL cannot
// be planted in a cookie to dispose someone else's instance.
package viewcookie

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

var ErrInvalid = errors.New("invalid view cookie")

const prefix = "lv_"

type Codec struct {
	Secret []byte
	Secure bool
	MaxAge time.Duration
}

func New(secret []byte, secure bool, maxAge time.Duration) *Codec {
	return &Codec{Secret: secret, Secure: secure, MaxAge: maxAge}
}

// Name is the cookie of one resource, e.g. lv_products.
func Name(resource string) string { return prefix + resource }

// value format: viewID.base64(hmac(resource:viewID))
func (c *Codec) Encode(resource, viewID string) string {
	return viewID + "." + sign(c.Secret, resource+":"+viewID)
}

func (c *Codec) Decode(resource, v string) (string, error) {
	id, sig, ok := strings.Cut(v, ".")
	if !ok || id == "" {
		return "", ErrInvalid
	}
	if !hmac.Equal([]byte(sign(c.Secret, resource+":"+id)), []byte(sig)) {
		return "", ErrInvalid
	}
	return id, nil
}

// Get returns the remembered instance id. A cookie that fails verification
// is cleared and reported as absent.
func (c *Codec) Get(ctx *gin.Context, resource string) (string, bool) {
	v, err := ctx.Cookie(Name(resource))
	if err != nil || v == "" {
		return "", false
	}
	id, err := c.Decode(resource, v)
	if err != nil {
		c.Clear(ctx, resource)
		return "", false
	}
	return id, true
}

func (c *Codec) Set(ctx *gin.Context, resource, viewID string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(Name(resource), c.Encode(resource, viewID), int(c.MaxAge.Seconds()), "/", "", c.Secure, true)
}

func (c *Codec) Clear(ctx *gin.Context, resource string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(Name(resource), "", -1, "/", "", c.Secure, true)
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
