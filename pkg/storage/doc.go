// Package storage decides where downloaded media lands and writes it there.
//
// Files are placed at <base>/<shortcode>/<filename> with every path element
// restricted to [A-Za-z0-9._-]. An existing file is never overwritten by the
// downloader, which is also why a truncated file from an interrupted run is
// not repaired by re-running: remove it by hand first.
package storage
