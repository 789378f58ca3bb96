package facerec

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
)

// Detection is a face bounding box in image pixel coordinates.
type Detection struct {
	X, Y, W, H int
}

// Detector locates candidate face regions in a decoded image.
type Detector interface {
	DetectFaces(img image.Image) []Detection
}

func decodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	return img, err
}

// GridDetector is a classical skin-region detector: the image is
// sampled onto a fixed grid, grid cells are classified with an RGB
// skin rule, and connected skin components large enough to plausibly
// be a face are reported as detections.
type GridDetector struct {
	// GridSize is the sampling resolution per axis.
	GridSize int
	// MinCells is the minimum component size, in grid cells, for a
	// component to count as a face region.
	MinCells int
}

func NewGridDetector() *GridDetector {
	return &GridDetector{GridSize: 64, MinCells: 16}
}

func (g *GridDetector) DetectFaces(img image.Image) []Detection {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	size := g.GridSize
	if size <= 0 {
		size = 64
	}

	// Sample the image onto the grid and classify each cell.
	skin := make([]bool, size*size)
	for gy := 0; gy < size; gy++ {
		for gx := 0; gx < size; gx++ {
			px := bounds.Min.X + gx*w/size
			py := bounds.Min.Y + gy*h/size
			r, gr, b, _ := img.At(px, py).RGBA()
			skin[gy*size+gx] = isSkinTone(uint8(r>>8), uint8(gr>>8), uint8(b>>8))
		}
	}

	// Group skin cells into connected components (4-neighbourhood).
	visited := make([]bool, size*size)
	var detections []Detection

	for start := 0; start < size*size; start++ {
		if !skin[start] || visited[start] {
			continue
		}

		minX, minY := size, size
		maxX, maxY := 0, 0
		count := 0
		stack := []int{start}
		visited[start] = true

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cx, cy := cur%size, cur/size
			count++
			if cx < minX {
				minX = cx
			}
			if cy < minY {
				minY = cy
			}
			if cx > maxX {
				maxX = cx
			}
			if cy > maxY {
				maxY = cy
			}

			for _, d := range [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := cx+d[0], cy+d[1]
				if nx < 0 || ny < 0 || nx >= size || ny >= size {
					continue
				}
				idx := ny*size + nx
				if skin[idx] && !visited[idx] {
					visited[idx] = true
					stack = append(stack, idx)
				}
			}
		}

		if count < g.MinCells {
			continue
		}

		// Reject components with implausible face proportions.
		cw := maxX - minX + 1
		ch := maxY - minY + 1
		ratio := float64(cw) / float64(ch)
		if ratio < 0.3 || ratio > 2.5 {
			continue
		}

		detections = append(detections, Detection{
			X: bounds.Min.X + minX*w/size,
			Y: bounds.Min.Y + minY*h/size,
			W: cw * w / size,
			H: ch * h / size,
		})
	}

	return detections
}

// isSkinTone is the classical RGB skin classification rule.
func isSkinTone(r, g, b uint8) bool {
	if r <= 95 || g <= 40 || b <= 20 {
		return false
	}
	if r <= g || r <= b {
		return false
	}
	diff := int(r) - int(g)
	if diff < 0 {
		diff = -diff
	}
	return diff > 15
}

// encodeRegion produces a fixed-length descriptor from the normalized
// grayscale crop of a detected region: the region is sampled onto a
// 16x8 luminance grid and scaled to [0,1].
func encodeRegion(img image.Image, det Detection) []float64 {
	const cols, rows = 16, 8

	encoding := make([]float64, 0, EncodingSize)
	bounds := img.Bounds()

	w, h := det.W, det.H
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	for ry := 0; ry < rows; ry++ {
		for rx := 0; rx < cols; rx++ {
			px := det.X + rx*w/cols
			py := det.Y + ry*h/rows
			if px < bounds.Min.X {
				px = bounds.Min.X
			}
			if py < bounds.Min.Y {
				py = bounds.Min.Y
			}
			if px >= bounds.Max.X {
				px = bounds.Max.X - 1
			}
			if py >= bounds.Max.Y {
				py = bounds.Max.Y - 1
			}

			r, g, b, _ := img.At(px, py).RGBA()
			// Rec. 601 luma.
			luma := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			encoding = append(encoding, luma/255.0)
		}
	}

	return encoding
}
