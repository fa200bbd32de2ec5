// Package board is the facade over the rendering capability. The sync controller only
// talks to the Board interface; swapping renderers means implementing it again.
package board

import (
	"weiqi_client/internal/domain/game"
	"weiqi_client/internal/overlay"
)

const (
	MinSize = 2
	MaxSize = 25
)

type Board interface {
	// SetSize fixes the grid dimension. It can be called once per game.
	SetSize(n int) error
	OnClick(fn func(x, y int))
	PlaceStone(s game.Stone) error
	// RestoreFullState overwrites the whole board with the snapshot.
	RestoreFullState(st game.BoardState) error
	AddOverlay(o overlay.Overlay)
}

// hoshiPoints returns the star points for the usual board sizes.
func hoshiPoints(size int) [][2]int {
	var edge int
	switch {
	case size >= 13:
		edge = 3
	case size >= 7:
		edge = 2
	default:
		return nil
	}
	far := size - 1 - edge
	points := [][2]int{{edge, edge}, {edge, far}, {far, edge}, {far, far}}
	if size%2 == 1 {
		mid := size / 2
		points = append(points, [2]int{mid, mid})
		if size >= 13 {
			points = append(points, [2]int{edge, mid}, [2]int{far, mid}, [2]int{mid, edge}, [2]int{mid, far})
		}
	}
	return points
}

func isHoshi(x, y, size int) bool {
	for _, p := range hoshiPoints(size) {
		if p[0] == x && p[1] == y {
			return true
		}
	}
	return false
}
