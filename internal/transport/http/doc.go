// Package http provides the HTTP transport layer for the local license
// API consumed by the desktop UI.
//
// The server binds to loopback only; the handlers translate between the
// JSON request/response shapes of the UI and the services layer. Two
// failure modes are kept apart deliberately: a license that verifies but
// is refused (expired, wrong holder) comes back as a 200 with a verdict,
// while a string that is not a license artifact at all comes back as a
// 422 INVALID_LICENSE_ARTIFACT.
package http
