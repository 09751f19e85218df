package models

import (
	"strconv"
	"strings"
	"time"
)

// OrderGroup anchors the sibling orders created by expanding one
// multi-target signal. Members link back via Order.GroupID.
type OrderGroup struct {
	ID          string    `db:"id"`
	SignalID    string    `db:"signal_id"`
	Symbol      string    `db:"symbol"`
	Side        string    `db:"side"`
	TotalLots   float64   `db:"total_lots"`
	Members     int       `db:"members"`
	OpenCount   int       `db:"open_count"`
	ClosedCount int       `db:"closed_count"`
	HitLevels   string    `db:"hit_levels"`
	CurrentStop float64   `db:"current_stop"`
	Breakeven   bool      `db:"breakeven"`
	Trailing    bool      `db:"trailing"`
	Profit      float64   `db:"profit"`
	CreatedAt   time.Time `db:"created_at"`
}

// HitLevelSet decodes the comma-separated level list.
func (g *OrderGroup) HitLevelSet() map[int]bool {
	out := make(map[int]bool)
	if g.HitLevels == "" {
		return out
	}
	for _, s := range strings.Split(g.HitLevels, ",") {
		if n, err := strconv.Atoi(s); err == nil {
			out[n] = true
		}
	}
	return out
}

func (g *OrderGroup) AddHitLevel(level int) {
	set := g.HitLevelSet()
	if set[level] {
		return
	}
	if g.HitLevels == "" {
		g.HitLevels = strconv.Itoa(level)
		return
	}
	g.HitLevels += "," + strconv.Itoa(level)
}
