package raytrace

import (
	"github.com/cpmech/optigo/aperture"
	"github.com/cpmech/optigo/errs"
	"github.com/cpmech/optigo/frame"
	"github.com/cpmech/optigo/geom"
	"github.com/cpmech/optigo/material"
)

// interactionName/parseInteraction round-trip Interaction through its
// spec.md §6 string form, the same tagged-discriminator idiom package
// geom/aperture/solve use for their own variant enums.
func interactionName(i Interaction) string {
	switch i {
	case Refract:
		return "refract"
	case Reflect:
		return "reflect"
	case ParaxialElement:
		return "paraxial_element"
	case Grating:
		return "grating"
	case Stop:
		return "stop"
	case Absorb:
		return "absorb"
	}
	return "refract"
}

func parseInteraction(s string) Interaction {
	switch s {
	case "reflect":
		return Reflect
	case "paraxial_element":
		return ParaxialElement
	case "grating":
		return Grating
	case "stop":
		return Stop
	case "absorb":
		return Absorb
	}
	return Refract
}

// indexFuncFromName resolves a surface's PreName/PostName back into a
// material.IndexFunc: "air" and "mirror" are the two pseudo-materials
// package material names directly, anything else is looked up in
// provider at trace time (mirroring material.Catalog.Lookup, generalized
// to any material.Provider so a caller's own glass catalog round-trips
// too).
func indexFuncFromName(name string, provider material.Provider) material.IndexFunc {
	switch name {
	case "air":
		return material.Air
	case "mirror":
		return material.Mirror
	}
	return func(wavelengthUm float64) (float64, error) {
		return provider.RefractiveIndex(name, wavelengthUm)
	}
}

// ToMap implements spec.md §6's persistence contract for a single
// surface: its frame, geometry, aperture, and interaction, plus the
// PreName/PostName identifiers needed to re-resolve its materials
// against a provider in FromMap (Pre/Post themselves are plain
// func(wavelength) values with nothing to serialize directly).
func (s *Surface) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"frame":         s.Frame.ToMap(),
		"geom":          s.Geom.ToMap(),
		"pre":           s.PreName,
		"post":          s.PostName,
		"semi_aperture": s.SemiAperture,
		"interaction":   interactionName(s.Interaction),
		"focal":         s.Focal,
	}
	if s.Aperture != nil {
		m["aperture"] = s.Aperture.ToMap()
	}
	if s.Grating != nil {
		m["grating"] = map[string]interface{}{
			"gx": s.Grating.GX, "gy": s.Grating.GY,
			"order": s.Grating.Order, "line_density": s.Grating.LineDensity,
		}
	}
	if s.Coat != nil {
		m["coat"] = map[string]interface{}{
			"ts": s.Coat.Ts, "tp": s.Coat.Tp, "rs": s.Coat.Rs, "rp": s.Coat.Rp,
		}
	}
	return m
}

// SurfaceFromMap rebuilds a Surface from ToMap's output. provider
// resolves any PreName/PostName that isn't one of the two built-in
// pseudo-materials ("air", "mirror") against a real glass catalog,
// mirroring package material.Provider's role as the core's only
// dependency on external glass data.
func SurfaceFromMap(m map[string]interface{}, provider material.Provider) (*Surface, error) {
	geomMap, _ := m["geom"].(map[string]interface{})
	g, err := geom.FromMap(geomMap)
	if err != nil {
		return nil, err
	}
	preName, _ := m["pre"].(string)
	postName, _ := m["post"].(string)
	s := &Surface{
		Frame:        frame.FromMap(mapOf(m, "frame")),
		Geom:         g,
		Pre:          indexFuncFromName(preName, provider),
		Post:         indexFuncFromName(postName, provider),
		PreName:      preName,
		PostName:     postName,
		SemiAperture: mgetf(m, "semi_aperture", 0),
		Interaction:  parseInteraction(mgets(m, "interaction", "refract")),
		Focal:        mgetf(m, "focal", 0),
	}
	if am, ok := m["aperture"].(map[string]interface{}); ok {
		a, err := aperture.FromMap(am)
		if err != nil {
			return nil, err
		}
		s.Aperture = a
	}
	if gm, ok := m["grating"].(map[string]interface{}); ok {
		s.Grating = &GratingSpec{
			GX: mgetf(gm, "gx", 0), GY: mgetf(gm, "gy", 0),
			Order: mgetf(gm, "order", 0), LineDensity: mgetf(gm, "line_density", 0),
		}
	}
	if cm, ok := m["coat"].(map[string]interface{}); ok {
		s.Coat = &Coating{
			Ts: mgetf(cm, "ts", 0), Tp: mgetf(cm, "tp", 0),
			Rs: mgetf(cm, "rs", 0), Rp: mgetf(cm, "rp", 0),
		}
	}
	return s, nil
}

// ToMap persists a Group as its ordered surface list plus the stop
// index.
func (g *Group) ToMap() map[string]interface{} {
	surfaces := make([]interface{}, len(g.Surfaces))
	for i, s := range g.Surfaces {
		surfaces[i] = s.ToMap()
	}
	return map[string]interface{}{"surfaces": surfaces, "stop_index": float64(g.StopIndex)}
}

// GroupFromMap rebuilds a Group from ToMap's output, resolving every
// surface's materials against provider.
func GroupFromMap(m map[string]interface{}, provider material.Provider) (*Group, error) {
	list, _ := m["surfaces"].([]interface{})
	surfaces := make([]*Surface, len(list))
	for i, raw := range list {
		sm, ok := raw.(map[string]interface{})
		if !ok {
			return nil, errs.New(errs.InvalidConfiguration, "surface %d is not a map", i)
		}
		s, err := SurfaceFromMap(sm, provider)
		if err != nil {
			return nil, err
		}
		surfaces[i] = s
	}
	return &Group{Surfaces: surfaces, StopIndex: int(mgetf(m, "stop_index", 0))}, nil
}

func mapOf(m map[string]interface{}, key string) map[string]interface{} {
	sub, _ := m[key].(map[string]interface{})
	return sub
}

func mgetf(m map[string]interface{}, key string, def float64) float64 {
	if v, ok := m[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return def
}

func mgets(m map[string]interface{}, key string, def string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}
