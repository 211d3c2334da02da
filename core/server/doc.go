// Package server holds the HTTP server configuration.
//
// The start command builds the Fiber application from this configuration: the
// listen port and the read/write timeouts. The write timeout has to leave room
// for a full refresh run, which waits on both external sources.
package server
