package shared

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}
