// Package download retrieves a resource over HTTP and saves it to disk.
package download
