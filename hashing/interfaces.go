package hashing

import (
	"context"
	"io"
)

// IHash defines a digest calculator returning lower-case hexadecimal strings.
type IHash interface {
	Calculate(reader io.Reader) (string, error)
	CalculateWithContext(ctx context.Context, reader io.Reader) (string, error)
	GetType() string
}
