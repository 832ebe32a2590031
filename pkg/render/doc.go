// Package render defines the renderer contract, the renderer registry and
// the per-request options shared by the HTML and terminal front ends.
package render
