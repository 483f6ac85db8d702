package fingerprint

import (
	"bytes"
	"errors"
	"image"
	"image/color"
)

// errNilImage is returned when a handle decodes to nothing.
var errNilImage = errors.New("handle decoded to a nil image")

// Handle gives access to a decoded image. Implementations may decode lazily
// but must return the same image on every call.
type Handle interface {
	Decode() (image.Image, error)
}

// Decoded wraps an already-decoded image.
type Decoded struct {
	Img image.Image
}

// Decode returns the wrapped image.
func (d Decoded) Decode() (image.Image, error) {
	if d.Img == nil {
		return nil, errNilImage
	}
	return d.Img, nil
}

// Comparator decides content equality between two handles. It must behave as
// an equivalence relation over the handles presented in one run.
type Comparator[H any] interface {
	Equal(a, b H) (bool, error)
}

// Validator is implemented by comparators that can check a handle on its
// own. The grouper validates every record before placing it, so a corrupt
// image that never gets compared is still reported.
type Validator[H any] interface {
	Validate(h H) error
}

// ComparatorFunc adapts a function to Comparator.
type ComparatorFunc[H any] func(a, b H) (bool, error)

// Equal calls f(a, b).
func (f ComparatorFunc[H]) Equal(a, b H) (bool, error) {
	return f(a, b)
}

// PixelOracle reports two images equal iff they have the same dimensions and
// the same non-premultiplied RGBA value at every coordinate. Coordinates are
// relative to each image's own origin.
type PixelOracle struct{}

// Validate decodes h and fails with a DecodeError if that is not possible.
func (PixelOracle) Validate(h Handle) error {
	_, err := decode(h)
	return err
}

// Equal compares the decoded content of a and b.
func (PixelOracle) Equal(a, b Handle) (bool, error) {
	ia, err := decode(a)
	if err != nil {
		return false, err
	}
	ib, err := decode(b)
	if err != nil {
		return false, err
	}
	return SameImage(ia, ib), nil
}

func decode(h Handle) (image.Image, error) {
	if h == nil {
		return nil, &DecodeError{Err: errNilImage}
	}
	img, err := h.Decode()
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	if img == nil {
		return nil, &DecodeError{Err: errNilImage}
	}
	return img, nil
}

// SameImage reports whether a and b have identical dimensions and pixels.
func SameImage(a, b image.Image) bool {
	ra, rb := a.Bounds(), b.Bounds()
	if ra.Dx() != rb.Dx() || ra.Dy() != rb.Dy() {
		return false
	}

	if na, ok := a.(*image.NRGBA); ok {
		if nb, ok := b.(*image.NRGBA); ok {
			return samePix(na.Pix, na.Stride, nb.Pix, nb.Stride, ra.Dx()*4, ra.Dy())
		}
	}
	if na, ok := a.(*image.RGBA); ok {
		if nb, ok := b.(*image.RGBA); ok {
			return samePix(na.Pix, na.Stride, nb.Pix, nb.Stride, ra.Dx()*4, ra.Dy())
		}
	}

	for y := 0; y < ra.Dy(); y++ {
		for x := 0; x < ra.Dx(); x++ {
			if pixelAt(a, ra.Min.X+x, ra.Min.Y+y) != pixelAt(b, rb.Min.X+x, rb.Min.Y+y) {
				return false
			}
		}
	}
	return true
}

// pixelAt returns the non-premultiplied value at (x, y). NRGBA pixels are
// widened directly so translucent colours keep their exact channel values.
func pixelAt(img image.Image, x, y int) color.NRGBA64 {
	if n, ok := img.(*image.NRGBA); ok {
		c := n.NRGBAAt(x, y)
		return color.NRGBA64{
			R: uint16(c.R) * 0x101,
			G: uint16(c.G) * 0x101,
			B: uint16(c.B) * 0x101,
			A: uint16(c.A) * 0x101,
		}
	}
	return color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
}

// samePix compares two row-major buffers row by row, ignoring stride padding.
func samePix(pa []uint8, sa int, pb []uint8, sb int, rowLen, rows int) bool {
	for y := 0; y < rows; y++ {
		if !bytes.Equal(pa[y*sa:y*sa+rowLen], pb[y*sb:y*sb+rowLen]) {
			return false
		}
	}
	return true
}

// Sequence is an ordered list of handles, e.g. every canvas one sample
// rendered across all experiments.
type Sequence []Handle

// SequenceOracle reports two sequences equal iff they have the same length
// and are element-wise equal under Elem.
type SequenceOracle struct {
	Elem PixelOracle
}

// Validate checks every element of s.
func (o SequenceOracle) Validate(s Sequence) error {
	for _, h := range s {
		if err := o.Elem.Validate(h); err != nil {
			return err
		}
	}
	return nil
}

// Equal compares a and b element by element.
func (o SequenceOracle) Equal(a, b Sequence) (bool, error) {
	if len(a) != len(b) {
		return false, nil
	}
	for i := range a {
		eq, err := o.Elem.Equal(a[i], b[i])
		if err != nil {
			return false, err
		}
		if !eq {
			return false, nil
		}
	}
	return true, nil
}
