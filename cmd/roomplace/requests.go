package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/banshee-data/roomsurface/internal/room"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

// Request operations.
const (
	opDesk        = "desk"
	opFloor       = "floor"
	opAny         = "any"
	opWall        = "wall"
	opRandomWall  = "random_wall"
	opRandomFloor = "random_floor"
	opRandomDesk  = "random_desk"
	opReset       = "reset"
)

// request is one line of the batch. Fields that do not apply to Op are
// ignored.
type request struct {
	Op             string     `json:"op" yaml:"op"`
	FaceTarget     [3]float64 `json:"face_target,omitempty" yaml:"face_target,omitempty"`
	Dims           [3]float64 `json:"dims,omitempty" yaml:"dims,omitempty"`
	Radius         float64    `json:"radius,omitempty" yaml:"radius,omitempty"`
	Width          float64    `json:"width,omitempty" yaml:"width,omitempty"`
	Height         float64    `json:"height,omitempty" yaml:"height,omitempty"`
	HeightOffFloor float64    `json:"height_off_floor,omitempty" yaml:"height_off_floor,omitempty"`
	EdgeMargin     float64    `json:"edge_margin,omitempty" yaml:"edge_margin,omitempty"`
	Mark           bool       `json:"mark,omitempty" yaml:"mark,omitempty"`
}

// result is printed as one JSON line per request.
type result struct {
	Index    int        `json:"index"`
	Op       string     `json:"op"`
	Found    bool       `json:"found"`
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"` // x, y, z, w
	Step     string     `json:"step,omitempty"`
	Degraded bool       `json:"degraded,omitempty"`
	Error    string     `json:"error,omitempty"`
}

func loadRequests(path string) ([]request, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read requests file: %w", err)
	}
	var reqs []request
	switch filepath.Ext(cleanPath) {
	case ".json":
		err = json.Unmarshal(data, &reqs)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &reqs)
	default:
		return nil, fmt.Errorf("requests file must have .json, .yaml or .yml extension, got %q", filepath.Ext(cleanPath))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse requests: %w", err)
	}
	return reqs, nil
}

func decodeRequests(r io.Reader) ([]request, error) {
	var reqs []request
	if err := json.NewDecoder(r).Decode(&reqs); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse requests: %w", err)
	}
	return reqs, nil
}

func vec(a [3]float64) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

func found(op string, ok bool, pos r3.Vec, rot quat.Number) result {
	return result{
		Op:       op,
		Found:    ok,
		Position: [3]float64{pos.X, pos.Y, pos.Z},
		Rotation: [4]float64{rot.Imag, rot.Jmag, rot.Kmag, rot.Real},
	}
}

// execute runs req against reg. Placement ops go through the fallback
// ladder; the random_* ops call the unconstrained queries directly.
func execute(reg *room.Registry, req request) result {
	switch req.Op {
	case opDesk, opFloor, opAny, opWall:
		res := reg.RequestLocationWithFallback(room.Request{
			Target:         room.Target(req.Op),
			FaceTarget:     vec(req.FaceTarget),
			Dims:           vec(req.Dims),
			Radius:         req.Radius,
			Width:          req.Width,
			Height:         req.Height,
			HeightOffFloor: req.HeightOffFloor,
			EdgeMargin:     req.EdgeMargin,
			MarkAsBlocked:  req.Mark,
		})
		out := found(req.Op, res.Found, res.Position, res.Rotation)
		out.Step, out.Degraded = res.Step, res.Degraded
		return out
	case opRandomWall:
		ok, pos, rot := reg.RequestTotallyRandomWallLocation()
		return found(req.Op, ok, pos, rot)
	case opRandomFloor:
		ok, pos, rot := reg.RequestTotallyRandomFloorLocation()
		return found(req.Op, ok, pos, rot)
	case opRandomDesk:
		ok, pos := reg.RequestTotallyRandomDeskLocation()
		return found(req.Op, ok, pos, quat.Number{Real: 1})
	case opReset:
		reg.ResetSceneUnderstanding()
		return found(req.Op, true, r3.Vec{}, quat.Number{Real: 1})
	default:
		out := found(req.Op, false, r3.Vec{}, quat.Number{Real: 1})
		out.Error = fmt.Sprintf("unknown op %q", req.Op)
		return out
	}
}
