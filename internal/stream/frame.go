// Package stream broadcasts simulation frames to websocket spectators.
package stream

import (
	"image/color"

	"github.com/vmihailenco/msgpack/v5"

	"terrasim/internal/core"
	"terrasim/internal/render"
)

// Frame kinds.
const (
	FrameKey   = "key"
	FrameDelta = "delta"
)

// Frame is one msgpack message. Keyframes carry every cell; deltas carry
// only the cells changed since the previous frame. Effects are always
// complete.
type Frame struct {
	Kind       string       `msgpack:"kind"`
	Seq        uint64       `msgpack:"seq"`
	Generation uint64       `msgpack:"gen"`
	Cols       int          `msgpack:"cols,omitempty"`
	Rows       int          `msgpack:"rows,omitempty"`
	CellSize   float64      `msgpack:"cell,omitempty"`
	Cells      []CellUpdate `msgpack:"cells"`
	Effects    []Shape      `msgpack:"effects"`
}

// CellUpdate is the colour of one terrain cell.
type CellUpdate struct {
	Index int    `msgpack:"i"`
	Color uint32 `msgpack:"c"`
}

// Shape is one effect primitive.
type Shape struct {
	Circle   bool    `msgpack:"o,omitempty"`
	X        float64 `msgpack:"x"`
	Y        float64 `msgpack:"y"`
	W        float64 `msgpack:"w"`
	H        float64 `msgpack:"h"`
	Rotation float64 `msgpack:"r,omitempty"`
	Color    uint32  `msgpack:"c"`
}

// PackColor encodes c as 0xRRGGBBAA.
func PackColor(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// UnpackColor reverses PackColor.
func UnpackColor(v uint32) color.RGBA {
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
}

func encodeFrame(kind string, seq uint64, geom core.Grid, batch *render.TerrainBatch, cells []int, effects []render.Primitive) ([]byte, error) {
	f := Frame{Kind: kind, Seq: seq, Generation: batch.Generation()}
	if kind == FrameKey {
		f.Cols, f.Rows, f.CellSize = geom.Cols, geom.Rows, geom.CellSize
		f.Cells = make([]CellUpdate, batch.Len())
		for i, p := range batch.Entries() {
			f.Cells[i] = CellUpdate{Index: i, Color: PackColor(p.Color)}
		}
	} else {
		f.Cells = make([]CellUpdate, 0, len(cells))
		for _, i := range cells {
			f.Cells = append(f.Cells, CellUpdate{Index: i, Color: PackColor(batch.At(i).Color)})
		}
	}
	f.Effects = make([]Shape, len(effects))
	for i, p := range effects {
		c := p.Bounds.Center()
		f.Effects[i] = Shape{
			Circle:   p.Shape == render.ShapeCircle,
			X:        c.X,
			Y:        c.Y,
			W:        p.Bounds.W(),
			H:        p.Bounds.H(),
			Rotation: p.Rotation,
			Color:    PackColor(p.Color),
		}
	}
	return msgpack.Marshal(&f)
}

// DecodeFrame parses a message produced by the hub.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	err := msgpack.Unmarshal(data, &f)
	return f, err
}
