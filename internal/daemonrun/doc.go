// Package daemonrun hosts the long-running bot process: it enforces
// single-instance execution with a lock file and drives the scan loop on
// a fixed poll interval until the context is cancelled.
package daemonrun
