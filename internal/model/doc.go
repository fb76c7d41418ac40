// Package model defines the data structures shared across labsite.
//
// This package contains the following main types:
//   - SiteConfig: The configuration document (profile and research directions)
//   - Publication: A single record of the publications document
//   - Award: Content of the easter-egg award modal
//   - Snapshot: A stored copy of the publications document
//   - PublicationDiff: The difference between two snapshots
//
// Design decision: We keep the models in their own package because the
// loader, the page state, the renderers and the database all need them.
// Centralizing them prevents import cycles.
//
// The JSON tags follow the field names of the two documents exactly, so the
// structures can be decoded from and written back to those documents without
// any intermediate representation.
package model
