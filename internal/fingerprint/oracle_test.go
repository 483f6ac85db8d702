package fingerprint

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameImage(t *testing.T) {
	base := solid(3, 2, red)

	withDot := solid(3, 2, red)
	withDot.SetNRGBA(2, 1, blue)

	big := solid(8, 8, green)
	big.SetNRGBA(5, 5, blue)
	shifted := solid(3, 3, green)
	shifted.SetNRGBA(1, 1, blue)

	rgba := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			rgba.Set(x, y, color.RGBA{R: 255, A: 255})
		}
	}

	paletted := image.NewPaletted(image.Rect(0, 0, 3, 2), color.Palette{color.RGBA{R: 255, A: 255}})

	tests := []struct {
		name     string
		a, b     image.Image
		expected bool
	}{
		{name: "identical", a: base, b: solid(3, 2, red), expected: true},
		{name: "one pixel differs", a: base, b: withDot, expected: false},
		{name: "different dimensions", a: base, b: solid(2, 3, red), expected: false},
		{name: "empty images", a: solid(0, 0, red), b: solid(0, 0, blue), expected: true},
		{name: "origin ignored", a: big.SubImage(image.Rect(4, 4, 7, 7)), b: shifted, expected: true},
		{name: "rgba against nrgba", a: rgba, b: base, expected: true},
		{name: "paletted against nrgba", a: paletted, b: base, expected: true},
		{name: "translucent values kept", a: solid(1, 1, color.NRGBA{R: 10, A: 3}), b: solid(1, 1, color.NRGBA{R: 11, A: 3}), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SameImage(tt.a, tt.b))
			assert.Equal(t, tt.expected, SameImage(tt.b, tt.a), "must be symmetric")
		})
	}
}

func TestPixelOracle(t *testing.T) {
	oracle := PixelOracle{}

	t.Run("reflexive", func(t *testing.T) {
		h := Decoded{Img: solid(2, 2, gray)}
		eq, err := oracle.Equal(h, h)
		require.NoError(t, err)
		assert.True(t, eq)
	})

	t.Run("decode failure is a DecodeError", func(t *testing.T) {
		cause := errors.New("truncated")
		_, err := oracle.Equal(Decoded{Img: solid(1, 1, red)}, brokenHandle{err: cause})

		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "truncated")
	})

	t.Run("nil handle", func(t *testing.T) {
		err := oracle.Validate(nil)
		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}

func TestSequenceOracle(t *testing.T) {
	oracle := SequenceOracle{}
	r := Decoded{Img: solid(2, 2, red)}
	b := Decoded{Img: solid(2, 2, blue)}

	tests := []struct {
		name     string
		a, b     Sequence
		expected bool
	}{
		{name: "same order", a: Sequence{r, b}, b: Sequence{r, b}, expected: true},
		{name: "swapped", a: Sequence{r, b}, b: Sequence{b, r}, expected: false},
		{name: "prefix", a: Sequence{r}, b: Sequence{r, b}, expected: false},
		{name: "both empty", a: Sequence{}, b: nil, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eq, err := oracle.Equal(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, eq)
		})
	}

	t.Run("groups samples", func(t *testing.T) {
		records := []Record[Sequence]{
			{ID: "s1", Image: Sequence{r, b}, Metadata: map[string]string{"browser": "Firefox"}},
			{ID: "s2", Image: Sequence{r, r}, Metadata: map[string]string{"browser": "Chrome"}},
			{ID: "s3", Image: Sequence{r, b}, Metadata: map[string]string{"browser": "Chrome"}},
		}

		result, err := New[Sequence](oracle).Analyze(records, []string{"browser"}, nil)
		require.NoError(t, err)
		require.Len(t, result.Classes, 2)
		assert.Equal(t, "s3", result.Classes[0].Members[0].ID)
		assert.Equal(t, 2, result.Classes[0].Size())
		assert.Equal(t, "s2", result.Classes[1].Members[0].ID)
	})

	t.Run("validate reports broken element", func(t *testing.T) {
		err := oracle.Validate(Sequence{r, brokenHandle{err: errors.New("x")}})
		var decodeErr *DecodeError
		assert.ErrorAs(t, err, &decodeErr)
	})
}

func TestComparatorFunc(t *testing.T) {
	byParity := ComparatorFunc[int](func(a, b int) (bool, error) { return a%2 == b%2, nil })
	records := []Record[int]{{ID: "1", Image: 1}, {ID: "2", Image: 2}, {ID: "3", Image: 3}}

	classes, err := Group(records, byParity)
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, []int{2, 1}, []int{classes[0].Size(), classes[1].Size()})
}
