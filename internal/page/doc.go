// Package page holds the state behind the homepage.
//
// Two kinds of state exist. Documents are shared by every visitor: the
// configuration document and the publications document, each loaded by its
// own goroutine into a Store. Interaction state belongs to one browser
// session: the avatar click counter, the selected research direction and
// the award modal flag.
//
// A View combines both into the value the renderers consume. A View built
// before the configuration document resolved is "not ready", and renders
// as the header plus a loading placeholder.
package page
