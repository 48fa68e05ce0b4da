// Package api exposes the standardization pipeline over HTTP.
//
// Routes:
//
//	POST /validate            run validation on an uploaded SWC file
//	GET  /reports             list stored reports, newest first
//	GET  /reports/{id}        fetch one report as JSON
//	GET  /reports/{id}/html   fetch one report rendered as HTML
//	GET  /healthz             liveness probe
package api
