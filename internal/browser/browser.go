// Package browser opens the operator's default web browser at the server
// root when the dev server starts, so editing can begin without hunting for
// the URL. Launch is strictly best-effort.
package browser

import (
	"log"

	pkgbrowser "github.com/pkg/browser"
)

var openURL = pkgbrowser.OpenURL

// Open points the default browser at url. Failure is logged and swallowed:
// a headless machine or missing browser must never abort server startup.
func Open(url string) {
	if err := openURL(url); err != nil {
		log.Printf("could not open browser at %s: %v", url, err)
	}
}
