// Package files groups input file handling.
//
//   - filesystem: local, in-memory and S3 providers behind one interface
//   - discovery: finds the *.json data files under a root
//
// Usage:
//
//	fsProvider := filesystem.NewRouter(filesystem.NewOSFileSystem(), s3fs)
//	discoverer := discovery.New(fsProvider)
//	paths, err := discoverer.Discover(ctx, "data/song_data")
package files
