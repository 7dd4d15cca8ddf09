package errors

import "errors"

var (
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrProcessing    = errors.New("processing error")
	ErrProvider      = errors.New("provider error")
)

func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsProcessing(err error) bool {
	return errors.Is(err, ErrProcessing)
}

func IsProvider(err error) bool {
	return errors.Is(err, ErrProvider)
}

// Kind names the error kind for logging, "unknown" when err carries none.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsConfiguration(err):
		return "configuration"
	case IsNotFound(err):
		return "not_found"
	case IsProcessing(err):
		return "processing"
	case IsProvider(err):
		return "provider"
	default:
		return "unknown"
	}
}
