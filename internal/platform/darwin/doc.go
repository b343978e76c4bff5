// Package darwin provides the macOS application registry and modifier-key
// reader. Running applications, bundle identifiers and termination requests
// go through osascript (JavaScript for Automation) over NSWorkspace,
// NSRunningApplication and NSBundle; launching uses open(1); the final kill
// tier sends SIGKILL directly. Reading modifier flags requires CGo.
package darwin
