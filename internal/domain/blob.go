package domain

// Blob is a stored binary object such as an event thumbnail.
type Blob struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
}
