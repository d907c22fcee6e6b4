package codec

import (
	"bufio"
	"fmt"
	"image"
	"io"
)

// encodeSVG writes img as an SVG document. The color of the top-left pixel
// becomes the background and every horizontal run of another color becomes
// one rect.
func encodeSVG(w io.Writer, img *image.RGBA) error {
	bw := bufio.NewWriter(w)
	width, height := img.Rect.Dx(), img.Rect.Dy()

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">
`, width, height, width, height)

	bg := rgbAt(img, 0, 0)
	fmt.Fprintf(bw, "<rect width=\"100%%\" height=\"100%%\" fill=\"%s\"/>\n", bg)

	for y := 0; y < height; y++ {
		for x := 0; x < width; {
			col := rgbAt(img, x, y)
			run := 1
			for x+run < width && rgbAt(img, x+run, y) == col {
				run++
			}
			if col != bg {
				fmt.Fprintf(bw, "<rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"1\" fill=\"%s\"/>\n", x, y, run, col)
			}
			x += run
		}
	}

	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func rgbAt(img *image.RGBA, x, y int) string {
	i := img.PixOffset(x, y)
	return fmt.Sprintf("#%02x%02x%02x", img.Pix[i], img.Pix[i+1], img.Pix[i+2])
}
