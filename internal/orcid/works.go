package orcid

// Wire shapes of GET /{id}/works. Only the fields used are declared; every
// nested object may be null in real responses.

type worksResponse struct {
	Group []workGroup `json:"group"`
}

type workGroup struct {
	WorkSummary []workSummary `json:"work-summary"`
}

type workSummary struct {
	Title           *workTitle       `json:"title"`
	PublicationDate *publicationDate `json:"publication-date"`
	JournalTitle    *stringValue     `json:"journal-title"`
	ExternalIDs     *externalIDs     `json:"external-ids"`
}

type workTitle struct {
	Title *stringValue `json:"title"`
}

type publicationDate struct {
	Year *stringValue `json:"year"`
}

type stringValue struct {
	Value string `json:"value"`
}

type externalIDs struct {
	ExternalID []externalID `json:"external-id"`
}

type externalID struct {
	Type  string `json:"external-id-type"`
	Value string `json:"external-id-value"`
}
