package media

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

type fitted struct {
	data    []byte
	width   int
	height  int
	resized bool
	err     error
}

// fit downsizes raster images wider than maxWidth and re-encodes them in
// their original format. Anything that cannot be decoded is kept as is.
func fit(data []byte, maxWidth int) fitted {
	out := fitted{data: data}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return out
	}
	out.width, out.height = cfg.Width, cfg.Height
	if maxWidth <= 0 || cfg.Width <= maxWidth {
		return out
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		out.err = fmt.Errorf("decode %s: %w", format, err)
		return out
	}
	bounds := img.Bounds()
	height := bounds.Dy() * maxWidth / bounds.Dx()
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "png":
		err = png.Encode(&buf, dst)
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "gif":
		err = gif.Encode(&buf, dst, nil)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		out.err = err
		return out
	}
	return fitted{data: buf.Bytes(), width: maxWidth, height: height, resized: true}
}
