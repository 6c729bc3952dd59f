package cdn

import (
	"context"
	"io"
)

type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

var _ Uploader = (*CloudinaryClient)(nil)
