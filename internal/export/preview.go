package export

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gogpu/gg"

	"github.com/Faultbox/roadkit/internal/geometry/mesh"
	"github.com/Faultbox/roadkit/pkg/math"
)

// ErrNothingToDraw is returned when a preview has no geometry.
var ErrNothingToDraw = errors.New("no geometry to preview")

// PreviewOptions configures RenderPreview.
type PreviewOptions struct {
	Width, Height int
	// Margin is the border around the scene, in pixels.
	Margin int
}

var (
	backgroundColor = gg.Hex("#2b3a2f")
	surfaceColor    = gg.Hex("#4a4d52")
	sidewalkColor   = gg.Hex("#b5b0a6")
	lineColor       = gg.Hex("#f2f2f2")
)

// layer orders submeshes so markings draw over surfaces.
type layer struct {
	order int
	color gg.RGBA
}

func layerOf(submesh string) layer {
	switch {
	case strings.Contains(submesh, "line"):
		return layer{2, lineColor}
	case strings.Contains(submesh, "sidewalk"), strings.Contains(submesh, "curb"):
		return layer{1, sidewalkColor}
	default:
		return layer{0, surfaceColor}
	}
}

// projection maps world XY onto the image with +Y pointing up.
type projection struct {
	minX, minY float32
	scale      float64
	offX, offY float64
	height     float64
}

func newProjection(bounds mesh.Bounds, opts PreviewOptions) projection {
	size := bounds.Size()
	w := float64(opts.Width - 2*opts.Margin)
	h := float64(opts.Height - 2*opts.Margin)
	scale := min(w/max(float64(size.X), 1), h/max(float64(size.Y), 1))
	return projection{
		minX:   bounds.Min.X,
		minY:   bounds.Min.Y,
		scale:  scale,
		offX:   float64(opts.Margin) + (w-float64(size.X)*scale)/2,
		offY:   float64(opts.Margin) + (h-float64(size.Y)*scale)/2,
		height: float64(opts.Height),
	}
}

func (p projection) apply(v math.Vec3) (float64, float64) {
	x := p.offX + float64(v.X-p.minX)*p.scale
	y := p.offY + float64(v.Y-p.minY)*p.scale
	return x, p.height - y
}

type drawItem struct {
	layer layer
	mesh  *mesh.Mesh
	xf    math.Mat4
}

// DrawPreview renders models top-down into a new context.
func DrawPreview(models []*mesh.Model, opts PreviewOptions) (*gg.Context, error) {
	if opts.Width <= 2*opts.Margin || opts.Height <= 2*opts.Margin {
		return nil, fmt.Errorf("preview size %dx%d leaves no room inside margin %d", opts.Width, opts.Height, opts.Margin)
	}

	bounds := mesh.EmptyBounds()
	var items []drawItem
	for _, model := range models {
		if model == nil {
			continue
		}
		for i := range model.Meshes {
			m := &model.Meshes[i]
			for _, v := range m.Vertices {
				bounds.Extend(model.Transform.TransformVec3(v.Position))
			}
			items = append(items, drawItem{layer: layerOf(m.Name), mesh: m, xf: model.Transform})
		}
	}
	if len(items) == 0 || !bounds.Valid() {
		return nil, ErrNothingToDraw
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].layer.order < items[j].layer.order
	})

	proj := newProjection(bounds, opts)
	dc := gg.NewContext(opts.Width, opts.Height)
	dc.ClearWithColor(backgroundColor)

	for _, it := range items {
		c := it.layer.color
		dc.SetRGBA(c.R, c.G, c.B, c.A)
		m := it.mesh
		for i := 0; i+2 < len(m.Indices); i += 3 {
			x0, y0 := proj.apply(it.xf.TransformVec3(m.Vertices[m.Indices[i]].Position))
			x1, y1 := proj.apply(it.xf.TransformVec3(m.Vertices[m.Indices[i+1]].Position))
			x2, y2 := proj.apply(it.xf.TransformVec3(m.Vertices[m.Indices[i+2]].Position))
			dc.MoveTo(x0, y0)
			dc.LineTo(x1, y1)
			dc.LineTo(x2, y2)
			dc.ClosePath()
			if err := dc.Fill(); err != nil {
				return nil, fmt.Errorf("filling %s: %w", m.Name, err)
			}
		}
	}
	return dc, nil
}

// RenderPreview writes a top-down PNG of models to path.
func RenderPreview(path string, models []*mesh.Model, opts PreviewOptions) error {
	dc, err := DrawPreview(models, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("saving preview %s: %w", path, err)
	}
	return nil
}

// EncodePreview writes a top-down PNG of models to w.
func EncodePreview(w io.Writer, models []*mesh.Model, opts PreviewOptions) error {
	dc, err := DrawPreview(models, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}
