package matte

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"os/exec"
)

// Segmenter is an opaque AI segmentation backend. It returns an RGBA result
// with an internally refined alpha edge; how it does so is its own business.
type Segmenter interface {
	Segment(img image.Image) (image.Image, error)
}

// ExternalSegmentation adapts a Segmenter to the Matter interface so the
// dispatcher can select it like any other strategy. It is never combined
// with the analytical matting methods.
type ExternalSegmentation struct {
	Model Segmenter
}

// Matte implements the Matter interface.
func (es *ExternalSegmentation) Matte(img image.Image) (*image.NRGBA, error) {
	if es.Model == nil {
		return nil, errors.New("no segmentation backend configured")
	}
	result, err := es.Model.Segment(img)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}

	if out, ok := result.(*image.NRGBA); ok {
		return out, nil
	}
	bounds := result.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Bounds(), result, bounds.Min, draw.Src)
	return out, nil
}

// CommandSegmenter bridges to an external segmentation process. The input
// image is written to the process as PNG on stdin and the RGBA PNG result is
// read back from stdout; stderr passes through for diagnostics.
type CommandSegmenter struct {
	Command string
	Args    []string
}

// Segment implements the Segmenter interface.
func (cs *CommandSegmenter) Segment(img image.Image) (image.Image, error) {
	var in bytes.Buffer
	if err := png.Encode(&in, img); err != nil {
		return nil, fmt.Errorf("failed to encode segmentation input: %w", err)
	}

	var out bytes.Buffer
	cmd := exec.Command(cs.Command, cs.Args...)
	cmd.Stdin = &in
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("segmentation command %q failed: %w", cs.Command, err)
	}

	result, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("failed to decode segmentation output: %w", err)
	}
	return result, nil
}
