// Package orcid fetches the works of a researcher from the ORCID public API
// and converts them into publication records.
//
// Only the first work summary of each work group is used. Missing years
// become "N/A" and missing journals "Unknown Journal"; the DOI is the value
// of the last external identifier of type "doi". Titles may carry inline
// markup (MathML, <i>, <sub>), which is stripped to plain text.
package orcid
