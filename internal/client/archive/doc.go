// Package archive prepares chapter ZIP files for the bulk chapter import.
//
// A source is a local .zip file, a local directory of chapter folders
// (packed on the fly) or an s3://bucket/key object in any S3-compatible
// store. Every archive is checked to be a readable ZIP that holds at least
// one page image before it is uploaded.
package archive
