package level

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// loadLimit bounds concurrent file reads.
const loadLimit = 4

// Collection is an ordered set of levels with unique names.
type Collection struct {
	levels []*Level
	index  map[string]int
}

func NewCollection(levels ...*Level) (*Collection, error) {
	c := &Collection{
		levels: make([]*Level, 0, len(levels)),
		index:  make(map[string]int, len(levels)),
	}
	for _, lvl := range levels {
		if lvl == nil {
			continue
		}
		if _, dup := c.index[lvl.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate level name %q", ErrInvalidLevel, lvl.Name)
		}
		c.index[lvl.Name] = len(c.levels)
		c.levels = append(c.levels, lvl)
	}
	return c, nil
}

// LoadCollection reads every path concurrently and keeps the order of paths.
// The first failure cancels the remaining reads.
func LoadCollection(ctx context.Context, paths []string) (*Collection, error) {
	levels := make([]*Level, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(loadLimit)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			lvl, err := Load(path)
			if err != nil {
				return err
			}
			levels[i] = lvl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return NewCollection(levels...)
}

func (c *Collection) Len() int { return len(c.levels) }

// At returns the level at i, or nil when i is out of range.
func (c *Collection) At(i int) *Level {
	if i < 0 || i >= len(c.levels) {
		return nil
	}
	return c.levels[i]
}

func (c *Collection) First() (*Level, error) {
	if len(c.levels) == 0 {
		return nil, ErrNotFound
	}
	return c.levels[0], nil
}

func (c *Collection) Get(name string) (*Level, error) {
	i, ok := c.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return c.levels[i], nil
}

// IndexOf returns the position of name, or -1.
func (c *Collection) IndexOf(name string) int {
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

// HasNext reports whether a level follows name.
func (c *Collection) HasNext(name string) bool {
	i := c.IndexOf(name)
	return i >= 0 && i < len(c.levels)-1
}

// Next returns the level after name. It fails for the last level and for
// unknown names.
func (c *Collection) Next(name string) (*Level, error) {
	if !c.HasNext(name) {
		return nil, fmt.Errorf("%w: no level after %q", ErrNotFound, name)
	}
	return c.levels[c.IndexOf(name)+1], nil
}

func (c *Collection) Names() []string {
	names := make([]string, len(c.levels))
	for i, lvl := range c.levels {
		names[i] = lvl.Name
	}
	return names
}
