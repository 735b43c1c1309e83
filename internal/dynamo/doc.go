// Package dynamo provides the primitives shared by the background animation core.
//
//   - [Vec2]: a point or vector in pixel or percentage space
//   - [Bounds]: the viewport size, with pixel/percentage conversion
//   - [Surface]: the raster drawing target every renderer paints into
//
// # Thread Safety
//
// Nothing here is synchronized. All mutation happens on the goroutine that
// pumps the frame loop (see package scheduler).
package dynamo
