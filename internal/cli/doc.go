// Package cli wires configuration, logging, caches and the queue controller
// together behind cobra commands. The root command starts the desktop app;
// "download" runs the same queue headless and "cache clear" empties the
// metadata and thumbnail caches.
package cli
