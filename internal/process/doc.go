// Package process terminates rendering-engine process trees and probes
// whether a process is still running after teardown.
package process
