// Package filesystem abstracts the places input files are read from.
//
// Implementations:
//   - OSFileSystem: local directories
//   - S3FileSystem: s3://bucket/prefix URIs
//   - MemoryFileSystem: in-memory trees for tests
//   - Router: dispatches on the path form to one of the above
//
// Every Directory walks its entries in lexical path order.
package filesystem
