package model

// ResearchDirection is one card of the research grid.
// It is immutable once loaded.
type ResearchDirection struct {
	// ID is the unique key of the direction inside the document.
	// It is used for list identity and as the anchor of the detail modal.
	ID string `json:"id"`

	// Title is the card heading.
	Title string `json:"title"`

	// Description is the one-sentence summary shown on the card and in the modal.
	Description string `json:"description"`

	// Details are the focus areas listed in the modal, in document order.
	Details []string `json:"details"`
}
