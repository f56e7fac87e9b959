package azuread

// page is the Graph list envelope: one page of values plus an opaque
// continuation link, absent on the last page.
type page[T any] struct {
	NextLink string `json:"@odata.nextLink,omitempty"`
	Value    []T    `json:"value"`
}
