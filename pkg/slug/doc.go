// Package slug derives URL-safe path segments from declared names.
//
// Latin names are folded to ASCII (diacritics removed); letters of other
// scripts are kept and lowercased. Names are split into words on
// punctuation, whitespace, case and letter/digit boundaries, and joined
// with a separator.
// The result is deterministic and idempotent: feeding a slug back into Make
// returns it unchanged.
//
// Basic usage:
//
//	slug.Make("BlogPost")          // "blog-post"
//	slug.Make("HTTPServer Config") // "http-server-config"
//	slug.Make("Café & Restaurant") // "cafe-restaurant"
//
// Path produces the percent-encoded segment used in routes and links:
//
//	slug.Path("Articles") // "articles"
//	slug.Path("Статьи")   // "%D1%81%D1%82%D0%B0%D1%82%D1%8C%D0%B8"
//
// Route registration and link generation must both go through Path,
// otherwise generated links will not match registered routes.
//
// # Options
//
//	slug.Make("Product Name", slug.Separator("_"))   // "product_name"
//	slug.Make("Product Name", slug.Lowercase(false)) // "Product-Name"
//	slug.Make("Long Article Title", slug.MaxLength(12))
//	slug.Make("Fish & Chips", slug.CustomReplace(map[string]string{"&": "and"}))
//	slug.Make("Price: $100", slug.StripChars("$:"))
package slug
