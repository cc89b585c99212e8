package geodata

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/paulmach/orb"
)

// Minimal GeoTIFF header reader. The viewer only needs a raster's
// georeferenced bounding box for the raster clip strategy, so this walks
// the first IFD of the TIFF and reads the handful of tags that define the
// pixel-to-world mapping. Full raster access stays out of scope.

const (
	tagImageWidth          = 256
	tagImageLength         = 257
	tagModelPixelScale     = 33550
	tagModelTiepoint       = 33922
	tagModelTransformation = 34264
)

// RasterBoundsReader resolves the georeferenced extent of raster files.
type RasterBoundsReader struct{}

// Bounds returns the world-coordinate bounding box of a GeoTIFF.
func (RasterBoundsReader) Bounds(path string) (orb.Bound, error) {
	f, err := os.Open(path)
	if err != nil {
		return orb.Bound{}, err
	}
	defer f.Close()
	return readTIFFBounds(f)
}

func readTIFFBounds(r io.ReaderAt) (orb.Bound, error) {
	var header [8]byte
	if _, err := r.ReadAt(header[:], 0); err != nil {
		return orb.Bound{}, fmt.Errorf("reading TIFF header: %w", err)
	}

	var order binary.ByteOrder
	switch {
	case header[0] == 'I' && header[1] == 'I':
		order = binary.LittleEndian
	case header[0] == 'M' && header[1] == 'M':
		order = binary.BigEndian
	default:
		return orb.Bound{}, ErrNotGeoTIFF
	}
	if order.Uint16(header[2:4]) != 42 {
		return orb.Bound{}, ErrNotGeoTIFF
	}

	ifdOffset := int64(order.Uint32(header[4:8]))
	var countBuf [2]byte
	if _, err := r.ReadAt(countBuf[:], ifdOffset); err != nil {
		return orb.Bound{}, fmt.Errorf("reading IFD: %w", err)
	}
	entries := int(order.Uint16(countBuf[:]))

	var width, height float64
	var scale, tiepoint, transform []float64

	for i := 0; i < entries; i++ {
		entry := make([]byte, 12)
		if _, err := r.ReadAt(entry, ifdOffset+2+int64(i)*12); err != nil {
			return orb.Bound{}, fmt.Errorf("reading IFD entry: %w", err)
		}
		tag := order.Uint16(entry[0:2])
		typ := order.Uint16(entry[2:4])
		count := order.Uint32(entry[4:8])

		switch tag {
		case tagImageWidth:
			width = float64(scalarValue(order, typ, entry[8:12]))
		case tagImageLength:
			height = float64(scalarValue(order, typ, entry[8:12]))
		case tagModelPixelScale, tagModelTiepoint, tagModelTransformation:
			doubles, err := readDoubles(r, order, entry, count)
			if err != nil {
				return orb.Bound{}, err
			}
			switch tag {
			case tagModelPixelScale:
				scale = doubles
			case tagModelTiepoint:
				tiepoint = doubles
			case tagModelTransformation:
				transform = doubles
			}
		}
	}

	if width <= 0 || height <= 0 {
		return orb.Bound{}, ErrNotGeoTIFF
	}

	switch {
	case len(scale) >= 2 && len(tiepoint) >= 6:
		// tiepoint maps raster (i,j) to world (x,y); scale is per-pixel size
		originX := tiepoint[3] - tiepoint[0]*scale[0]
		originY := tiepoint[4] + tiepoint[1]*scale[1]
		return orb.Bound{
			Min: orb.Point{originX, originY - height*scale[1]},
			Max: orb.Point{originX + width*scale[0], originY},
		}, nil
	case len(transform) >= 16:
		return transformedBounds(transform, width, height), nil
	default:
		return orb.Bound{}, ErrNotGeoTIFF
	}
}

// transformedBounds applies the 4x4 model transformation to the four raster
// corners and takes the envelope.
func transformedBounds(m []float64, width, height float64) orb.Bound {
	corners := [][2]float64{{0, 0}, {width, 0}, {0, height}, {width, height}}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x := m[0]*c[0] + m[1]*c[1] + m[3]
		y := m[4]*c[0] + m[5]*c[1] + m[7]
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}
}

// scalarValue decodes an inline SHORT or LONG tag value.
func scalarValue(order binary.ByteOrder, typ uint16, v []byte) uint32 {
	switch typ {
	case 3: // SHORT
		return uint32(order.Uint16(v[0:2]))
	case 4: // LONG
		return order.Uint32(v[0:4])
	default:
		return 0
	}
}

// readDoubles reads a DOUBLE-typed tag's out-of-line payload.
func readDoubles(r io.ReaderAt, order binary.ByteOrder, entry []byte, count uint32) ([]float64, error) {
	if typ := order.Uint16(entry[2:4]); typ != 12 { // DOUBLE
		return nil, ErrNotGeoTIFF
	}
	offset := int64(order.Uint32(entry[8:12]))
	buf := make([]byte, 8*count)
	if _, err := r.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("reading tag payload: %w", err)
	}
	out := make([]float64, count)
	for i := range out {
		out[i] = math.Float64frombits(order.Uint64(buf[i*8 : i*8+8]))
	}
	return out, nil
}
