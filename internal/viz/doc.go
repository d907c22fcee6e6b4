// Package viz provides the raster canvas that frames are drawn on and the
// terminal styles used by the CLI reports.
//
// [Canvas] is a fixed-size RGBA buffer with a current color and a pen
// position:
//
//   - lines are drawn with Bresenham's algorithm and leave the pen at the end
//     point
//   - circles use the midpoint recurrence, filled or outlined
//   - writes outside the canvas are dropped
//
// A canvas is handed to an [Encoder] with [Canvas.Save]; see package codec
// for the image formats.
//
// [Styles] and [Theme] wrap lipgloss for the info and stats commands.
package viz
