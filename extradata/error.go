package extradata

import "fmt"

type ErrEmpty struct{}

func (ErrEmpty) Error() string {
	return "unable to copy an empty extra data"
}

type ErrOutOfMemory struct {
	Size int
}

func (e ErrOutOfMemory) Error() string {
	return fmt.Sprintf("unable to allocate %d bytes for the extra data", e.Size)
}
