// Package storage maps media descriptors to file paths and commits
// downloads into the output directory.
//
// A file is named after its sanitized title plus its extension, directly
// inside the output directory. Downloads are written to "<dest>.part" and
// renamed on success, so an interrupted transfer never leaves a file that
// would later be mistaken for a finished one.
package storage
