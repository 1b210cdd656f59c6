// Package level reads brick layouts from YAML.
//
// Tiles are given as one string per row: '.' is an empty cell and a digit is
// an index into the palette. Row 0 is the top row.
package level

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/arkanoid/internal/core/physics"
)

var (
	ErrInvalidLevel = errors.New("level: invalid")
	ErrNotFound     = errors.New("level: not found")
)

const emptyTile = '.'

type Level struct {
	Name     string         `yaml:"name"`
	Rows     int            `yaml:"rows"`
	Columns  int            `yaml:"columns"`
	TileSize physics.Vec2   `yaml:"tile_size"`
	Spacing  physics.Vec2   `yaml:"spacing"`
	Origin   physics.Vec2   `yaml:"origin"` // center of the top-left cell
	Palette  []PaletteEntry `yaml:"palette"`
	Tiles    []string       `yaml:"tiles"`
	PowerUps [][2]int       `yaml:"power_ups,omitempty"`
}

// PaletteEntry is one brick type.
type PaletteEntry struct {
	Name   string `yaml:"name"`
	Health int    `yaml:"health"`
	Score  int    `yaml:"score"`
}

// Tile is the content of one grid cell. Type is -1 for empty cells.
type Tile struct {
	Type    int
	PowerUp bool
}

func (t Tile) Empty() bool { return t.Type < 0 }

// Cell is a brick to place.
type Cell struct {
	Row, Column int
	Bounds      physics.Bounds
	Brick       PaletteEntry
	PowerUp     bool
}

func Load(path string) (*Level, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("level: open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	lvl, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("level: %s: %w", path, err)
	}
	return lvl, nil
}

// Decode parses and validates a level. Spacing defaults to 0.1 on both axes.
func Decode(r io.Reader) (*Level, error) {
	lvl := &Level{Spacing: physics.Vec2{X: 0.1, Y: 0.1}}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(lvl); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return lvl, nil
}

func (l *Level) Validate() error {
	var err error
	add := func(format string, args ...any) {
		err = multierr.Append(err, fmt.Errorf(format, args...))
	}

	if l.Name == "" {
		add("name is required")
	}
	if l.Rows <= 0 || l.Columns <= 0 {
		add("grid must be at least 1x1, got %dx%d", l.Rows, l.Columns)
	}
	if !(l.TileSize.X > 0) || !(l.TileSize.Y > 0) {
		add("tile_size must be positive, got %v", l.TileSize)
	}
	if l.Spacing.X < 0 || l.Spacing.Y < 0 {
		add("spacing must not be negative, got %v", l.Spacing)
	}
	for i, p := range l.Palette {
		if p.Health < 1 {
			add("palette[%d] (%s): health must be at least 1", i, p.Name)
		}
		if p.Score < 0 {
			add("palette[%d] (%s): score must not be negative", i, p.Name)
		}
	}
	if len(l.Palette) > 10 {
		add("palette holds at most 10 entries, got %d", len(l.Palette))
	}

	if len(l.Tiles) != l.Rows {
		add("tiles: want %d rows, got %d", l.Rows, len(l.Tiles))
	}
	for row, line := range l.Tiles {
		if len(line) != l.Columns {
			add("tiles[%d]: want %d columns, got %d", row, l.Columns, len(line))
			continue
		}
		for col := 0; col < len(line); col++ {
			c := line[col]
			if c == emptyTile {
				continue
			}
			if c < '0' || c > '9' || int(c-'0') >= len(l.Palette) {
				add("tiles[%d][%d]: unknown tile %q", row, col, c)
			}
		}
	}

	for _, pu := range l.PowerUps {
		if !l.inGrid(pu[0], pu[1]) {
			add("power_up %v lies outside the grid", pu)
			continue
		}
		if l.Tile(pu[0], pu[1]).Empty() {
			add("power_up %v sits on an empty tile", pu)
		}
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	return nil
}

func (l *Level) inGrid(row, col int) bool {
	return row >= 0 && row < l.Rows && col >= 0 && col < l.Columns &&
		row < len(l.Tiles) && col < len(l.Tiles[row])
}

// Tile returns the cell at row, col. Out-of-range cells are empty.
func (l *Level) Tile(row, col int) Tile {
	if !l.inGrid(row, col) {
		return Tile{Type: -1}
	}
	c := l.Tiles[row][col]
	if c < '0' || c > '9' {
		return Tile{Type: -1}
	}
	t := Tile{Type: int(c - '0')}
	for _, pu := range l.PowerUps {
		if pu[0] == row && pu[1] == col {
			t.PowerUp = true
			break
		}
	}
	return t
}

// Cells lists the bricks in row-major order.
func (l *Level) Cells() []Cell {
	cells := make([]Cell, 0, max(l.Rows*l.Columns, 0))
	step := l.TileSize.Add(l.Spacing)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Columns; col++ {
			t := l.Tile(row, col)
			if t.Empty() || t.Type >= len(l.Palette) {
				continue
			}
			center := l.Origin.Add(physics.Vec2{X: float64(col) * step.X, Y: -float64(row) * step.Y})
			cells = append(cells, Cell{
				Row:     row,
				Column:  col,
				Bounds:  physics.BoundsFromCenter(center, l.TileSize),
				Brick:   l.Palette[t.Type],
				PowerUp: t.PowerUp,
			})
		}
	}
	return cells
}

// Checksum fingerprints the level content.
func (l *Level) Checksum() (uint64, error) {
	data, err := yaml.Marshal(l)
	if err != nil {
		return 0, fmt.Errorf("level: checksum: %w", err)
	}
	return xxhash.Sum64(data), nil
}
