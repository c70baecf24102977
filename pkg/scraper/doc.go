// Package scraper drives the resolver over a list of post URLs.
//
// URLs are processed strictly one after another with a pause in between,
// never concurrently. Each batch is tagged with a run id in the logs.
package scraper
