package ingestion

import "fmt"

// TooManyFilesError is returned when more uploads are offered than a submission accepts.
type TooManyFilesError struct {
	Count int
	Max   int
}

func (e *TooManyFilesError) Error() string {
	return fmt.Sprintf("too many files: %d (maximum %d)", e.Count, e.Max)
}
