// Package cookie manages plain, signed and encrypted HTTP cookies plus the
// one-time flash notice the admin UI shows after a write.
//
//	m, err := cookie.New(secret, cookie.WithSecure(true))
//	if err != nil {
//		return err // secret shorter than 32 bytes
//	}
//
//	m.SetSigned(w, "theme", "dark", 86400)
//	theme, err := m.GetSigned(r, "theme")
//
//	err = m.SetEncrypted(w, "cms_token", token, 3600)
//	token, err := m.GetEncrypted(r, "cms_token")
//
// Signatures and ciphertexts are bound to the cookie name, so a value
// cannot be replayed under another name.
//
// Flash notices survive exactly one read:
//
//	m.SetFlash(w, "Article saved")
//	msg := m.Flash(w, r) // "Article saved"; later reads return ""
package cookie
