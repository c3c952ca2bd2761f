package filesystem

import (
	"context"
	"fmt"
)

// Router sends s3:// paths to the S3 provider and everything else to the
// local provider. The S3 provider may be nil when no root uses S3.
type Router struct {
	local FileSystemProvider
	s3    FileSystemProvider
}

func NewRouter(local, s3 FileSystemProvider) *Router {
	return &Router{local: local, s3: s3}
}

func (r *Router) provider(path string) (FileSystemProvider, error) {
	if !IsS3URI(path) {
		return r.local, nil
	}
	if r.s3 == nil {
		return nil, fmt.Errorf("S3 input is not configured for %s", path)
	}
	return r.s3, nil
}

func (r *Router) Open(ctx context.Context, path string) (Directory, error) {
	p, err := r.provider(path)
	if err != nil {
		return nil, err
	}
	return p.Open(ctx, path)
}

func (r *Router) ReadFile(ctx context.Context, path string) ([]byte, error) {
	p, err := r.provider(path)
	if err != nil {
		return nil, err
	}
	return p.ReadFile(ctx, path)
}
