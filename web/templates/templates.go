// Package templates embeds the HTML templates served by the application
// and the email bodies under email/.
package templates

import "embed"

//go:embed *.html email/*.html
var FS embed.FS
