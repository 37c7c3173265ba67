// Package flash signs one-shot status messages carried across a redirect.
package flash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"crudapp.com/app/pkg/view"
)

var ErrInvalid = errors.New("invalid flash cookie")

const maxAge = 2 * time.Minute

type Codec struct {
	Secret     []byte
	CookieName string
	Secure     bool

	now func() time.Time
}

func NewCodec(secret []byte, cookieName string, secure bool) *Codec {
	return &Codec{Secret: secret, CookieName: cookieName, Secure: secure, now: time.Now}
}

type envelope struct {
	view.Flash
	IssuedAt int64 `json:"iat"`
}

// Encode produces base64(json).base64(hmac). The issue time is signed with
// the message so a replayed cookie stops decoding after CookieMaxAge.
func (c *Codec) Encode(f view.Flash) (string, error) {
	b, err := json.Marshal(envelope{Flash: f, IssuedAt: c.clock().Unix()})
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + sign(c.Secret, payload), nil
}

func (c *Codec) Decode(v string) (*view.Flash, error) {
	payload, sig, ok := strings.Cut(v, ".")
	if !ok || !verify(c.Secret, payload, sig) {
		return nil, ErrInvalid
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrInvalid
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, ErrInvalid
	}
	if strings.TrimSpace(env.Message) == "" || !knownKind(env.Kind) {
		return nil, ErrInvalid
	}
	if c.clock().Sub(time.Unix(env.IssuedAt, 0)) > maxAge {
		return nil, ErrInvalid
	}
	f := env.Flash
	return &f, nil
}

func (c *Codec) CookieMaxAge() int {
	return int(maxAge.Seconds())
}

func (c *Codec) clock() time.Time {
	if c.now == nil {
		return time.Now()
	}
	return c.now()
}

func knownKind(k view.FlashKind) bool {
	switch k {
	case view.FlashInfo, view.FlashSuccess, view.FlashWarning, view.FlashError:
		return true
	}
	return false
}

func sign(secret []byte, payload string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func verify(secret []byte, payload, sig string) bool {
	return hmac.Equal([]byte(sign(secret, payload)), []byte(sig))
}
