// Package render turns a page.View into output documents.
//
// HTMLWriter produces the homepage. In interactive mode (the serve command)
// every control is a small form posting back to the server, which owns
// the interaction state. In static mode (the build command) the research
// modals are all rendered and shown through :target anchors, and the
// five-click avatar gesture is a short inline script.
//
// MarkdownWriter produces a Markdown rendition of the same view, used for
// homepage.md in builds and for terminal previews. DiffMarkdownWriter
// formats publication history diffs.
package render
