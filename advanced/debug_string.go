package advanced

import (
	"fmt"
	"strings"

	"github.com/osuushi/terrainmesh/dbg"
)

func (t *Triangle) DbgName() string {
	switch {
	case t.IsDummy():
		return dbg.ColorName(t, dbg.Sentinel)
	case t.IsDead():
		return dbg.ColorName(t, dbg.Dead)
	case t.infected:
		return dbg.ColorName(t, dbg.Infected)
	}
	return dbg.ColorName(t, dbg.Live)
}

func (t *Triangle) String() string {
	if t.IsDummy() || t.IsDead() {
		return fmt.Sprintf("Triangle %s #%d", t.DbgName(), t.id)
	}
	var neighbors, corners []string
	for i := 0; i < 3; i++ {
		neighbors = append(neighbors, t.neighbors[i].tri.DbgName())
		corners = append(corners, t.vertices[i].String())
	}
	return fmt.Sprintf("Triangle %s #%d (%s) <N: %s> label %d",
		t.DbgName(), t.id,
		strings.Join(corners, ", "),
		strings.Join(neighbors, ", "),
		t.Label,
	)
}

func (s *SubSegment) DbgName() string {
	switch {
	case s.IsDummy():
		return dbg.ColorName(s, dbg.Sentinel)
	case s.IsDead():
		return dbg.ColorName(s, dbg.Dead)
	}
	return dbg.ColorName(s, dbg.Live)
}

func (s *SubSegment) String() string {
	if s.IsDummy() || s.IsDead() {
		return fmt.Sprintf("SubSegment %s #%d", s.DbgName(), s.hash)
	}
	return fmt.Sprintf("SubSegment %s #%d %s -> %s label %d",
		s.DbgName(), s.hash, s.vertices[0], s.vertices[1], s.Label)
}

func (v *Vertex) String() string {
	if v == nil {
		return "Ø"
	}
	status := dbg.Live
	if !v.Alive() {
		status = dbg.Dead
	}
	return fmt.Sprintf("%s#%d(%g, %g)", dbg.ColorName(v, status), v.ID, v.X, v.Y)
}

func (o OTri) String() string {
	if o.tri == nil {
		return "OTri Ø"
	}
	if o.IsDummy() || o.tri.IsDead() {
		return fmt.Sprintf("OTri %s/%d", o.tri.DbgName(), o.orient)
	}
	return fmt.Sprintf("OTri %s/%d %s -> %s ^ %s", o.tri.DbgName(), o.orient, o.Org(), o.Dest(), o.Apex())
}

func (o OSub) String() string {
	if o.seg == nil {
		return "OSub Ø"
	}
	if o.IsDummy() || o.seg.IsDead() {
		return fmt.Sprintf("OSub %s/%d", o.seg.DbgName(), o.orient)
	}
	return fmt.Sprintf("OSub %s/%d %s -> %s", o.seg.DbgName(), o.orient, o.Org(), o.Dest())
}
