package optic

import (
	"math"

	"github.com/cpmech/optigo/aim"
	"github.com/cpmech/optigo/apodization"
	"github.com/cpmech/optigo/errs"
	"github.com/cpmech/optigo/field"
	"github.com/cpmech/optigo/geom"
	"github.com/cpmech/optigo/material"
	"github.com/cpmech/optigo/raytrace"
	"github.com/cpmech/optigo/solve"
)

// ToMap implements spec.md §6's persistence contract for the Optic
// itself, composing the ToMap already built for every field it holds
// (Group, FieldDef, Apodizer, Solves) plus its own plain scalar/struct
// fields.
func (o *Optic) ToMap() map[string]interface{} {
	fields := make([]interface{}, len(o.Fields))
	for i, f := range o.Fields {
		fields[i] = map[string]interface{}{
			"hx": f.Hx, "hy": f.Hy,
			"vux": f.VUX, "vlx": f.VLX, "vuy": f.VUY, "vly": f.VLY,
			"weight": f.Weight,
		}
	}
	wavelengths := make([]interface{}, len(o.Wavelengths))
	for i, w := range o.Wavelengths {
		wavelengths[i] = w
	}
	m := map[string]interface{}{
		"group":       o.Group.ToMap(),
		"fields":      fields,
		"wavelengths": wavelengths,
		"primary":     float64(o.Primary),
		"aperture": map[string]interface{}{
			"type": o.Aperture.Type, "value": o.Aperture.Value,
		},
		"field_def": o.FieldDef.ToMap(),
		"aim_config": map[string]interface{}{
			"strategy": o.AimConfig.Strategy, "cache": o.AimConfig.Cache,
			"max_cache_size": float64(o.AimConfig.MaxCacheSize),
		},
		"apodizer":            o.Apodizer.ToMap(),
		"solves":              o.Solves.ToMap(),
		"max_field_value":     o.MaxFieldValue,
		"object_z":            o.ObjectZ,
		"object_distance":     o.ObjectDistance,
		"z_offset":            o.ZOffset,
		"image_solve_enabled": o.ImageSolveEnabled,
		"telecentric":         o.Telecentric,
	}
	if o.ObjectGeom != nil {
		m["object_geom"] = o.ObjectGeom.ToMap()
	}
	return m
}

// FromMap rebuilds an Optic from ToMap's output, resolving every
// surface material in the group against provider (the system's only
// dependency on external glass data, per spec.md §6).
func FromMap(m map[string]interface{}, provider material.Provider) (*Optic, error) {
	groupMap, _ := m["group"].(map[string]interface{})
	group, err := raytrace.GroupFromMap(groupMap, provider)
	if err != nil {
		return nil, err
	}

	rawFields, _ := m["fields"].([]interface{})
	fields := make([]field.Field, len(rawFields))
	for i, raw := range rawFields {
		fm, ok := raw.(map[string]interface{})
		if !ok {
			return nil, errs.New(errs.InvalidConfiguration, "field %d is not a map", i)
		}
		fields[i] = field.Field{
			Hx: mgetf(fm, "hx", 0), Hy: mgetf(fm, "hy", 0),
			VUX: mgetf(fm, "vux", 0), VLX: mgetf(fm, "vlx", 0),
			VUY: mgetf(fm, "vuy", 0), VLY: mgetf(fm, "vly", 0),
			Weight: mgetf(fm, "weight", 0),
		}
	}

	rawWl, _ := m["wavelengths"].([]interface{})
	wavelengths := make([]float64, len(rawWl))
	for i, raw := range rawWl {
		if f, ok := raw.(float64); ok {
			wavelengths[i] = f
		}
	}

	apMap, _ := m["aperture"].(map[string]interface{})
	aperture := ApertureSpec{
		Type:  mgets(apMap, "type", ""),
		Value: mgetf(apMap, "value", 0),
	}

	fieldDefMap, _ := m["field_def"].(map[string]interface{})
	fieldDef, err := field.FromMap(fieldDefMap)
	if err != nil {
		return nil, err
	}

	aimMap, _ := m["aim_config"].(map[string]interface{})
	aimCfg := aim.Config{
		Strategy:     mgets(aimMap, "strategy", ""),
		Cache:        mgetb(aimMap, "cache"),
		MaxCacheSize: int(mgetf(aimMap, "max_cache_size", 0)),
	}

	o, err := New(group, fields, wavelengths, int(mgetf(m, "primary", 0)), aperture, fieldDef, aimCfg)
	if err != nil {
		return nil, err
	}

	if apdMap, ok := m["apodizer"].(map[string]interface{}); ok {
		apd, err := apodization.FromMap(apdMap)
		if err != nil {
			return nil, err
		}
		o.Apodizer = apd
	}
	if solvesMap, ok := m["solves"].(map[string]interface{}); ok {
		mgr, err := solve.ManagerFromMap(solvesMap)
		if err != nil {
			return nil, err
		}
		o.Solves = mgr
	}
	if geomMap, ok := m["object_geom"].(map[string]interface{}); ok {
		og, err := geom.FromMap(geomMap)
		if err != nil {
			return nil, err
		}
		o.ObjectGeom = og
	}

	o.MaxFieldValue = mgetf(m, "max_field_value", 1)
	o.ObjectZ = mgetf(m, "object_z", 0)
	if v, ok := m["object_distance"]; ok {
		if f, ok := v.(float64); ok {
			o.ObjectDistance = f
		}
	} else {
		o.ObjectDistance = math.Inf(1)
	}
	o.ZOffset = mgetf(m, "z_offset", 10)
	o.ImageSolveEnabled = mgetb(m, "image_solve_enabled")
	o.Telecentric = mgetb(m, "telecentric")

	if err := o.rebuildAimer(); err != nil {
		return nil, err
	}
	return o, nil
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

func mgetb(m map[string]interface{}, key string) bool {
	if v, ok := m[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
