// Package pipeline produces the static snapshot of the homepage.
//
// A build is a sequence of steps: load the documents, check that the
// configuration arrived, clean the output directory, then write the
// renditions. Each step receives the Build being assembled and may add to
// it.
//
// Design decision: We keep the pipeline pattern instead of one build
// function because:
// 1. Steps can be added or dropped per command (preview only renders Markdown)
// 2. Error handling and logging are consistent across steps
// 3. Independent output steps run concurrently inside a Group
package pipeline
