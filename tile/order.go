package tile

import (
	"sort"

	"github.com/katalvlaran/tilecoord/geom"
	"github.com/katalvlaran/tilecoord/hilbert"
)

// sortSlice orders a device's tile slice according to order, around the
// given image center. HilbertSpiral is not handled here — its ordering (and
// device chunking) is produced directly by hilbertSequence, since it is
// valid only in background distribution and determines chunk membership as
// well as intra-chunk order.
func sortSlice(order Order, tiles []*Tile, center geom.Point) {
	switch order {
	case Center:
		sort.SliceStable(tiles, func(i, j int) bool {
			return sqDist(tiles[i].Rect.Center(), center) < sqDist(tiles[j].Rect.Center(), center)
		})
	case LeftToRight:
		sort.SliceStable(tiles, func(i, j int) bool {
			a, b := tiles[i].Rect, tiles[j].Rect
			if a.X != b.X {
				return a.X < b.X
			}
			return a.Y < b.Y
		})
	case RightToLeft:
		sort.SliceStable(tiles, func(i, j int) bool {
			a, b := tiles[i].Rect, tiles[j].Rect
			if a.X != b.X {
				return a.X > b.X
			}
			return a.Y < b.Y
		})
	case TopToBottom:
		sort.SliceStable(tiles, func(i, j int) bool {
			a, b := tiles[i].Rect, tiles[j].Rect
			if a.Y != b.Y {
				return a.Y > b.Y
			}
			return a.X < b.X
		})
	case BottomToTop:
		sort.SliceStable(tiles, func(i, j int) bool {
			a, b := tiles[i].Rect, tiles[j].Rect
			if a.Y != b.Y {
				return a.Y < b.Y
			}
			return a.X < b.X
		})
	}
}

func sqDist(a, b geom.Point) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// spiralDir is one of the four legs of the block spiral, cycled in the
// order Up -> Left -> Down -> Right.
type spiralDir int

const (
	dirUp spiralDir = iota
	dirLeft
	dirDown
	dirRight
)

func (d spiralDir) next() spiralDir { return (d + 1) % 4 }

// blockVisit records one block's position in the spiral plus the leg
// direction it was emitted under and the direction of the leg before it —
// both inputs to the per-block Hilbert rotation rule.
type blockVisit struct {
	pos     geom.Point
	dir     spiralDir
	prevDir spiralDir
}

// blockSpiralOrder walks the n×n grid of blocks in one continuous square
// spiral, starting at the block grid's bottom-right corner (see DESIGN.md
// for this corner choice) and turning inward leg by leg in the cycle Up,
// Left, Down, Right, ending at the center block. n must be odd (the caller
// forces this via n|1).
func blockSpiralOrder(n int) []blockVisit {
	if n <= 0 {
		return nil
	}
	out := make([]blockVisit, 0, n*n)
	top, bottom, left, right := 0, n-1, 0, n-1
	bx, by := right, bottom
	dir := dirUp
	out = append(out, blockVisit{pos: geom.Point{X: bx, Y: by}, dir: dirUp, prevDir: dirUp})

	for len(out) < n*n {
		prev := dir
		switch dir {
		case dirUp:
			for by > top {
				by--
				out = append(out, blockVisit{pos: geom.Point{X: bx, Y: by}, dir: dir, prevDir: prev})
			}
			right--
		case dirLeft:
			for bx > left {
				bx--
				out = append(out, blockVisit{pos: geom.Point{X: bx, Y: by}, dir: dir, prevDir: prev})
			}
			top++
		case dirDown:
			for by < bottom {
				by++
				out = append(out, blockVisit{pos: geom.Point{X: bx, Y: by}, dir: dir, prevDir: prev})
			}
			left++
		case dirRight:
			for bx < right {
				bx++
				out = append(out, blockVisit{pos: geom.Point{X: bx, Y: by}, dir: dir, prevDir: prev})
			}
			bottom--
		}
		dir = dir.next()
	}
	return out
}

// rotateLocal applies the per-leg Hilbert rotation to a block-local
// position (hx,hy) in an H×H block, given the leg direction the block was
// emitted under (dir) and the direction of the leg before it (prev).
func rotateLocal(dir, prev spiralDir, hx, hy, h int) (int, int) {
	switch {
	case prev == dirUp && dir == dirUp:
		return hy, hx
	case dir == dirLeft || prev == dirLeft:
		return hx, hy
	case dir == dirDown:
		return h - 1 - hy, h - 1 - hx
	default:
		return h - 1 - hx, h - 1 - hy
	}
}

// hilbertSize returns the number of tiles per block edge used for the
// Hilbert-spiral order: 8 when the tile is small enough that an 8×8 block
// stays a reasonable overscan unit, 4 otherwise.
func hilbertSize(tileSize geom.Size) int {
	if geom.MaxInt(tileSize.W, tileSize.H) <= 12 {
		return 8
	}
	return 4
}

// hilbertSequence generates the full ordered list of tile-grid pixel
// origins (top-left corners, unclipped widths assumed = tileSize) for the
// HILBERT_SPIRAL order over an image_w x image_h region: a square spiral of
// hilbert_size x hilbert_size blocks, centered and tile-aligned, each block
// internally walked in Hilbert-curve order rotated per its spiral leg.
// Positions outside the image are omitted by the caller, not here —
// hilbertSequence emits every generated position, and distributeHilbert
// drops those that fall outside the image.
func hilbertSequence(imageW, imageH int, tileSize geom.Size) []geom.Point {
	h := hilbertSize(tileSize)
	blockSize := tileSize.Scale(h)
	blocksX := geom.CeilDiv(imageW, blockSize.W)
	blocksY := geom.CeilDiv(imageH, blockSize.H)
	n := geom.MaxInt(blocksX, blocksY) | 1

	offX := geom.FloorDiv(geom.FloorDiv(imageW-n*blockSize.W, 2), tileSize.W) * tileSize.W
	offY := geom.FloorDiv(geom.FloorDiv(imageH-n*blockSize.H, 2), tileSize.H) * tileSize.H

	blocks := blockSpiralOrder(n)
	out := make([]geom.Point, 0, n*n*h*h)
	for _, b := range blocks {
		blockOriginX := offX + b.pos.X*blockSize.W
		blockOriginY := offY + b.pos.Y*blockSize.H
		for idx := 0; idx < h*h; idx++ {
			hx, hy := hilbert.Decode(h, idx)
			rx, ry := rotateLocal(b.dir, b.prevDir, hx, hy, h)
			out = append(out, geom.Point{
				X: blockOriginX + rx*tileSize.W,
				Y: blockOriginY + ry*tileSize.H,
			})
		}
	}
	return out
}
