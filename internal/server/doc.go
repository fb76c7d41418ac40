// Package server serves the interactive homepage.
//
// The page is rendered on the server for every request. Interaction state
// (avatar clicks, selected research direction, award modal) lives in a
// per-browser session identified by a cookie; every control is a form that
// posts to the server, which updates the session and redirects back to the
// page with 303 See Other.
//
// Loading starts in the background, so the server answers immediately and
// shows the loading placeholder until the configuration document arrives.
// With watching enabled, local document changes are reloaded and connected
// browsers are told to refresh over a websocket.
package server
