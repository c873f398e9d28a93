package names

import "errors"

var (
	// ErrUnrecognizedURI indicates a URI that matches none of the configured prefixes.
	ErrUnrecognizedURI = errors.New("unrecognized uri prefix")
)
