package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// MinSecretLen is the shortest accepted secret.
const MinSecretLen = 32

// FlashName is the cookie carrying one-time UI notices.
const FlashName = "cms_flash"

var (
	ErrNotFound  = errors.New("cookie: not found")
	ErrBadSecret = errors.New("cookie: secret must be 32+ bytes")
	ErrBadSig    = errors.New("cookie: invalid signature")
	ErrDecrypt   = errors.New("cookie: decryption failed")
)

// Manager reads and writes plain, signed and encrypted cookies with shared
// attributes. Signing uses HMAC-SHA256 and encryption AES-GCM, both keyed
// from the secret.
type Manager struct {
	secret   []byte
	aead     cipher.AEAD
	domain   string
	path     string
	secure   bool
	httpOnly bool
	sameSite http.SameSite
}

// Option configures the Manager.
type Option func(*Manager)

// New returns a Manager keyed by secret. Cookies default to path "/",
// HttpOnly and SameSite=Lax.
func New(secret string, opts ...Option) (*Manager, error) {
	if len(secret) < MinSecretLen {
		return nil, ErrBadSecret
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		secret:   []byte(secret),
		aead:     aead,
		path:     "/",
		httpOnly: true,
		sameSite: http.SameSiteLaxMode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.domain = domain }
}

func WithPath(path string) Option {
	return func(m *Manager) { m.path = path }
}

func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.sameSite = ss }
}

// Get returns a plain cookie value.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", ErrNotFound
	}
	return c.Value, nil
}

// Set sets a plain cookie. maxAge 0 makes a session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.cookie(name, value, maxAge))
}

// Delete expires a cookie.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

// GetSigned returns the value of a cookie written by SetSigned.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	encValue, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}
	value, err := base64.RawURLEncoding.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil || !hmac.Equal(sig, m.sign(name, value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

// SetSigned writes base64(value).base64(hmac(name, value)). The value stays
// readable by the client but cannot be altered or moved to another name.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge int) {
	enc := base64.RawURLEncoding.EncodeToString([]byte(value)) + "." +
		base64.RawURLEncoding.EncodeToString(m.sign(name, []byte(value)))
	m.Set(w, name, enc, maxAge)
}

// GetEncrypted returns the value of a cookie written by SetEncrypted.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	raw, err := m.Get(r, name)
	if err != nil {
		return "", err
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(data) < m.aead.NonceSize() {
		return "", ErrDecrypt
	}
	nonce, ciphertext := data[:m.aead.NonceSize()], data[m.aead.NonceSize():]
	plain, err := m.aead.Open(nil, nonce, ciphertext, []byte(name))
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

// SetEncrypted writes value sealed with AES-GCM, bound to the cookie name.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, maxAge int) error {
	nonce := make([]byte, m.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return err
	}
	sealed := m.aead.Seal(nonce, nonce, []byte(value), []byte(name))
	m.Set(w, name, base64.RawURLEncoding.EncodeToString(sealed), maxAge)
	return nil
}

// SetFlash stores a notice for the next page view.
func (m *Manager) SetFlash(w http.ResponseWriter, msg string) {
	m.SetSigned(w, FlashName, msg, 0)
}

// Flash returns and clears the pending notice. Missing or tampered notices
// read as "".
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request) string {
	msg, err := m.GetSigned(r, FlashName)
	if errors.Is(err, ErrNotFound) {
		return ""
	}
	m.Delete(w, FlashName)
	if err != nil {
		return ""
	}
	return msg
}

func (m *Manager) sign(name string, value []byte) []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(name))
	mac.Write([]byte{0})
	mac.Write(value)
	return mac.Sum(nil)
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     m.path,
		Domain:   m.domain,
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: m.httpOnly,
		SameSite: m.sameSite,
	}
}
