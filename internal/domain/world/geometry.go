package world

import "strings"

type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Add(d Direction) Point {
	dx, dy := d.Delta()
	return Point{X: p.X + dx, Y: p.Y + dy}
}

type Direction string

const (
	DirUp    Direction = "up"
	DirDown  Direction = "down"
	DirLeft  Direction = "left"
	DirRight Direction = "right"
)

var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

func ParseDirection(raw string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up", "north", "n":
		return DirUp, true
	case "down", "south", "s":
		return DirDown, true
	case "left", "west", "w":
		return DirLeft, true
	case "right", "east", "e":
		return DirRight, true
	default:
		return "", false
	}
}

func (d Direction) Delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}
