// Package viz hosts the scene in a terminal using Bubble Tea.
//
// Both layers render into RGBA canvases at a fixed number of pixels per
// cell and are downsampled into half-block characters, two vertical
// samples per cell. Terminal mouse events feed the input hub, so the
// bubbles dodge the cursor and clicks spawn pulses.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	Tab   - Cycle tunable parameters
//	Up/K  - Increase parameter (+5%)
//	Down/J- Decrease parameter (-5%)
//	R     - Reset parameters
//	T     - Cycle status bar themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
package viz
