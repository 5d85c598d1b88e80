package director

import (
	"image"
	"image/color"
	"math"
	"sort"
)

// Region is a high-contrast area of a page in page fractions, so it is
// independent of the resolution the page was rendered at. Score is the
// edge density inside the region.
type Region struct {
	X, Y, W, H float64
	Score      float64
}

// Center returns the region midpoint.
func (r Region) Center() (cx, cy float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// DetectorOptions tune DetectRegions.
type DetectorOptions struct {
	EdgeThreshold float64 // Sobel gradient magnitude cutoff
	MinArea       float64 // smallest region kept, as a fraction of the page
	MaxRegions    int     // keep only the best-scoring regions
}

// DefaultDetectorOptions returns settings that pick out text blocks and
// figures on typical slides and papers.
func DefaultDetectorOptions() DetectorOptions {
	return DetectorOptions{
		EdgeThreshold: 30,
		MinArea:       0.002,
		MaxRegions:    6,
	}
}

// DetectRegions finds the readable blocks of a rendered page: Sobel
// edges, dilation to join nearby strokes into blocks, then connected
// components filtered by area.
func DetectRegions(img image.Image, opts DetectorOptions) []Region {
	bounds := img.Bounds()
	pageW, pageH := float64(bounds.Dx()), float64(bounds.Dy())
	if pageW == 0 || pageH == 0 {
		return nil
	}

	gray := toGray(img)
	edges := sobel(gray, opts.EdgeThreshold)
	blocks := dilate(edges, 5, 2)

	var regions []Region
	for _, c := range components(blocks) {
		area := float64(c.rect.Dx()) * float64(c.rect.Dy())
		if area/(pageW*pageH) < opts.MinArea {
			continue
		}
		regions = append(regions, Region{
			X:     float64(c.rect.Min.X-bounds.Min.X) / pageW,
			Y:     float64(c.rect.Min.Y-bounds.Min.Y) / pageH,
			W:     float64(c.rect.Dx()) / pageW,
			H:     float64(c.rect.Dy()) / pageH,
			Score: float64(c.pixels) / area,
		})
	}

	sort.SliceStable(regions, func(i, j int) bool {
		return regions[i].Score > regions[j].Score
	})
	if opts.MaxRegions > 0 && len(regions) > opts.MaxRegions {
		regions = regions[:opts.MaxRegions]
	}
	return regions
}

func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

var (
	sobelX = [3][3]float64{{-1, 0, 1}, {-2, 0, 2}, {-1, 0, 1}}
	sobelY = [3][3]float64{{-1, -2, -1}, {0, 0, 0}, {1, 2, 1}}
)

// sobel marks pixels whose gradient magnitude exceeds threshold.
func sobel(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	edges := image.NewGray(bounds)

	for y := bounds.Min.Y + 1; y < bounds.Max.Y-1; y++ {
		for x := bounds.Min.X + 1; x < bounds.Max.X-1; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					p := float64(gray.GrayAt(x+kx, y+ky).Y)
					gx += p * sobelX[ky+1][kx+1]
					gy += p * sobelY[ky+1][kx+1]
				}
			}
			if math.Sqrt(gx*gx+gy*gy) > threshold {
				edges.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return edges
}

// dilate grows white areas so characters and strokes merge into the
// block that contains them.
func dilate(img *image.Gray, kernelSize, iterations int) *image.Gray {
	bounds := img.Bounds()
	half := kernelSize / 2

	result := img
	for iter := 0; iter < iterations; iter++ {
		next := image.NewGray(bounds)
		for y := bounds.Min.Y + half; y < bounds.Max.Y-half; y++ {
			for x := bounds.Min.X + half; x < bounds.Max.X-half; x++ {
				var max uint8
				for ky := -half; ky <= half; ky++ {
					for kx := -half; kx <= half; kx++ {
						if v := result.GrayAt(x+kx, y+ky).Y; v > max {
							max = v
						}
					}
				}
				next.SetGray(x, y, color.Gray{Y: max})
			}
		}
		result = next
	}
	return result
}

type component struct {
	rect   image.Rectangle
	pixels int
}

// components finds the bounding rectangles of connected white areas and
// how many white pixels each holds.
func components(img *image.Gray) []component {
	bounds := img.Bounds()
	visited := make([]bool, bounds.Dx()*bounds.Dy())
	index := func(x, y int) int {
		return (y-bounds.Min.Y)*bounds.Dx() + (x - bounds.Min.X)
	}

	var out []component
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.GrayAt(x, y).Y <= 128 || visited[index(x, y)] {
				continue
			}
			out = append(out, flood(img, visited, index, x, y))
		}
	}
	return out
}

func flood(img *image.Gray, visited []bool, index func(x, y int) int, startX, startY int) component {
	bounds := img.Bounds()
	minX, minY, maxX, maxY := startX, startY, startX, startY
	pixels := 0

	stack := []image.Point{{X: startX, Y: startY}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < bounds.Min.X || p.X >= bounds.Max.X || p.Y < bounds.Min.Y || p.Y >= bounds.Max.Y {
			continue
		}
		if visited[index(p.X, p.Y)] || img.GrayAt(p.X, p.Y).Y <= 128 {
			continue
		}
		visited[index(p.X, p.Y)] = true
		pixels++

		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}

		stack = append(stack,
			image.Point{X: p.X + 1, Y: p.Y},
			image.Point{X: p.X - 1, Y: p.Y},
			image.Point{X: p.X, Y: p.Y + 1},
			image.Point{X: p.X, Y: p.Y - 1},
		)
	}

	return component{rect: image.Rect(minX, minY, maxX+1, maxY+1), pixels: pixels}
}
