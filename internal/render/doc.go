// Package render composes particle frames into raster images.
//
// A frame is drawn in three passes so that no depth buffer is needed:
//
//  1. box edges hidden behind the particle cloud
//  2. particles, sorted by view depth from far to near
//  3. box edges in front of the particle cloud
//
// Particle types index a [StyleTable] of fill color, outline color and
// radius. Particles rejected by the filter chain are not drawn.
package render
