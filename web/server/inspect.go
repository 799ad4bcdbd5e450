package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-direct-raytracer/pkg/core"
	"github.com/df07/go-direct-raytracer/pkg/material"
	"github.com/df07/go-direct-raytracer/pkg/renderer"
)

// InspectResponse represents the JSON response for pixel inspection
type InspectResponse struct {
	renderer.PixelInfo
	Mode         string                 `json:"mode"`
	MaterialType string                 `json:"materialType,omitempty"`
	Properties   map[string]interface{} `json:"properties,omitempty"`
}

// extractMaterialInfo describes a material for the inspector
func extractMaterialInfo(mat material.Material) (string, map[string]interface{}) {
	properties := make(map[string]interface{})

	switch m := mat.(type) {
	case *material.SolidColor:
		properties["color"] = hexColor(m.Color)
		return "solid", properties

	case *material.Lambert:
		properties["color"] = hexColor(m.DiffuseColor)
		properties["kd"] = m.DiffuseReflectance
		return "lambert", properties

	case *material.LambertPhong:
		properties["color"] = hexColor(m.DiffuseColor)
		properties["kd"] = m.DiffuseReflectance
		properties["ks"] = m.SpecularReflectance
		properties["exponent"] = m.PhongExponent
		return "lambert-phong", properties

	case *material.CookTorrance:
		properties["color"] = hexColor(m.Albedo)
		properties["metalness"] = m.Metalness
		properties["roughness"] = m.Roughness
		return "cook-torrance", properties

	default:
		return fmt.Sprintf("%T", mat), properties
	}
}

func hexColor(c core.ColorRGB) string {
	r, g, b := c.ToRGBA8()
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// handleInspect reports what the primary ray through one pixel hits and how each light contributes
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	x, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	y, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}
	if x < 0 || x >= req.Width || y < 0 || y >= req.Height {
		writeError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	rt, err := s.newRaytracer(req)
	if err != nil {
		writeSceneError(w, err)
		return
	}

	info, err := rt.Inspect(req.Width, req.Height, x, y)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	response := InspectResponse{PixelInfo: info, Mode: req.Mode.String()}
	if info.Hit {
		response.MaterialType, response.Properties = extractMaterialInfo(rt.Scene().Material(info.MaterialIndex))
	}
	writeJSON(w, http.StatusOK, response)
}
