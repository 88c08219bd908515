// Package app wires the CLI surface to the matting strategies: flag parsing,
// config-file defaults, input validation, mode resolution and the
// decode-matte-encode pipeline around the selected strategy.
package app

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/chroma-matte/internal/config"
	"github.com/ironsheep/chroma-matte/internal/imaging"
	"github.com/ironsheep/chroma-matte/internal/matte"
)

// ErrMissingInputFile indicates a required image file does not exist.
var ErrMissingInputFile = errors.New("input file not found")

// ErrMissingSecondBackground indicates triangulation was requested without a
// second background image path.
var ErrMissingSecondBackground = errors.New("second background image (-bg2) required for triangulation")

// Options holds the fully resolved parameters for one invocation. Flag
// values override the config file, which overrides the built-in defaults.
type Options struct {
	InputPath  string
	OutputPath string

	// Mode flags, resolved by precedence in selectStrategy
	Triangulation bool
	Segment       bool
	ColorDistance bool

	ChromaColor string
	AutoChroma  bool

	BG2Path  string
	BG1Color string
	BG2Color string

	HueTolerance   float64
	SaturationMin  float64
	BlurSigma      float64
	NearThreshold  float64
	FarThreshold   float64
	Despill        float64
	AlphaThreshold float64

	SegmentCommand string
	SegmentArgs    []string
}

// Run parses the arguments and executes the selected matting mode. A help
// request is not an error; everything else bubbles up for the caller to
// report and exit non-zero.
func Run(args []string) error {
	opts, err := ParseArgs(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	return opts.run()
}

// ParseArgs parses CLI arguments into Options. The two positional arguments
// are the input and output paths; an optional -config YAML file supplies
// defaults for any flag the user did not set explicitly.
func ParseArgs(args []string) (*Options, error) {
	def := config.DefaultConfig()

	fs := flag.NewFlagSet("chroma-matte", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: chroma-matte [options] <input_path> <output_path>")
		fmt.Fprintln(fs.Output(), "Remove a chroma key background and write a transparent PNG.")
		fmt.Fprintln(fs.Output(), "Options:")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "Path to a YAML defaults file")
	chromaColor := fs.String("chroma-color", def.Chroma.Color, "Chroma key hex color")
	autoChroma := fs.Bool("auto-chroma", false, "Detect the chroma key color from the image's dominant color")
	colorDistance := fs.Bool("color-distance", false, "Use color-distance matting (Smith-Blinn) for smooth gradient edges")
	segment := fs.Bool("segment", false, "Use the external AI segmentation backend")
	triangulation := fs.Bool("triangulation", false, "Use triangulation matting from two background images (best quality)")
	bg2 := fs.String("bg2", "", "Path to second background image (required for -triangulation)")
	blackBG := fs.String("black-bg", "", "Deprecated alias for -bg2")
	bg1Color := fs.String("bg1-color", def.Triangulation.BG1Color, "Hex color of the first background image")
	bg2Color := fs.String("bg2-color", def.Triangulation.BG2Color, "Hex color of the second background image")
	alphaThreshold := fs.Float64("alpha-threshold", def.Triangulation.AlphaThreshold, "Alpha below this becomes fully transparent")
	hueTolerance := fs.Float64("hue-tolerance", def.Chroma.HueTolerance, "Hue tolerance in degrees")
	saturationMin := fs.Float64("saturation-min", def.Chroma.SaturationMin, "Minimum saturation (0-255)")
	blurSigma := fs.Float64("blur-sigma", def.Output.BlurSigma, "Alpha channel Gaussian blur sigma")
	nearThreshold := fs.Float64("near-threshold", def.Distance.NearThreshold, "Color distance below this is fully transparent")
	farThreshold := fs.Float64("far-threshold", def.Distance.FarThreshold, "Color distance above this is fully opaque")
	despill := fs.Float64("despill", def.Distance.DespillStrength, "Despill strength 0-1 to remove background color bleed")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	cfg := def
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded

		// The config file fills in every flag the user left at its default.
		if !explicit["chroma-color"] {
			*chromaColor = cfg.Chroma.Color
		}
		if !explicit["hue-tolerance"] {
			*hueTolerance = cfg.Chroma.HueTolerance
		}
		if !explicit["saturation-min"] {
			*saturationMin = cfg.Chroma.SaturationMin
		}
		if !explicit["near-threshold"] {
			*nearThreshold = cfg.Distance.NearThreshold
		}
		if !explicit["far-threshold"] {
			*farThreshold = cfg.Distance.FarThreshold
		}
		if !explicit["despill"] {
			*despill = cfg.Distance.DespillStrength
		}
		if !explicit["bg1-color"] {
			*bg1Color = cfg.Triangulation.BG1Color
		}
		if !explicit["bg2-color"] {
			*bg2Color = cfg.Triangulation.BG2Color
		}
		if !explicit["alpha-threshold"] {
			*alphaThreshold = cfg.Triangulation.AlphaThreshold
		}
		if !explicit["blur-sigma"] {
			*blurSigma = cfg.Output.BlurSigma
		}
	}

	rest := fs.Args()
	if len(rest) != 2 {
		fs.Usage()
		return nil, fmt.Errorf("expected <input_path> and <output_path>, got %d positional arguments", len(rest))
	}

	opts := &Options{
		InputPath:      rest[0],
		OutputPath:     rest[1],
		Triangulation:  *triangulation,
		Segment:        *segment,
		ColorDistance:  *colorDistance,
		ChromaColor:    *chromaColor,
		AutoChroma:     *autoChroma,
		BG2Path:        *bg2,
		BG1Color:       *bg1Color,
		BG2Color:       *bg2Color,
		HueTolerance:   *hueTolerance,
		SaturationMin:  *saturationMin,
		BlurSigma:      *blurSigma,
		NearThreshold:  *nearThreshold,
		FarThreshold:   *farThreshold,
		Despill:        *despill,
		AlphaThreshold: *alphaThreshold,
		SegmentCommand: cfg.Segmentation.Command,
		SegmentArgs:    cfg.Segmentation.Args,
	}
	if opts.BG2Path == "" {
		opts.BG2Path = *blackBG
	}
	return opts, nil
}

func (o *Options) run() error {
	if _, err := os.Stat(o.InputPath); err != nil {
		return fmt.Errorf("%w: %s", ErrMissingInputFile, o.InputPath)
	}

	img, err := imaging.Decode(o.InputPath)
	if err != nil {
		return err
	}

	matter, method, err := o.selectStrategy(img)
	if err != nil {
		return err
	}

	result, err := matter.Matte(img)
	if err != nil {
		return err
	}

	if err := imaging.EncodePNG(result, o.OutputPath); err != nil {
		return err
	}

	fmt.Printf("Saved transparent PNG (%s): %s\n", method, o.OutputPath)
	return nil
}

// selectStrategy resolves the mode flags into a matting strategy. When modes
// are combined the precedence is: triangulation, then segmentation, then
// color-distance, then the legacy threshold.
func (o *Options) selectStrategy(img image.Image) (matte.Matter, string, error) {
	switch {
	case o.Triangulation:
		if o.BG2Path == "" {
			return nil, "", ErrMissingSecondBackground
		}
		if _, err := os.Stat(o.BG2Path); err != nil {
			return nil, "", fmt.Errorf("%w: %s", ErrMissingInputFile, o.BG2Path)
		}
		second, err := imaging.Decode(o.BG2Path)
		if err != nil {
			return nil, "", err
		}
		b1, err := imaging.ParseHexColor(o.BG1Color)
		if err != nil {
			return nil, "", err
		}
		b2, err := imaging.ParseHexColor(o.BG2Color)
		if err != nil {
			return nil, "", err
		}
		return &matte.Triangulation{
			Second:         second,
			BG1:            b1,
			BG2:            b2,
			AlphaThreshold: o.AlphaThreshold,
		}, "triangulation matting", nil

	case o.Segment:
		if o.SegmentCommand == "" {
			return nil, "", errors.New("no segmentation command configured (set segmentation.command in the config file)")
		}
		return &matte.ExternalSegmentation{
			Model: &matte.CommandSegmenter{Command: o.SegmentCommand, Args: o.SegmentArgs},
		}, "segmentation", nil

	case o.ColorDistance:
		chroma, err := o.chroma(img)
		if err != nil {
			return nil, "", err
		}
		return &matte.ColorDistance{
			Chroma:          chroma,
			NearThreshold:   o.NearThreshold,
			FarThreshold:    o.FarThreshold,
			DespillStrength: o.Despill,
			BlurSigma:       o.BlurSigma,
		}, "color-distance matting", nil

	default:
		chroma, err := o.chroma(img)
		if err != nil {
			return nil, "", err
		}
		return &matte.ChromaKey{
			Chroma:        chroma,
			HueTolerance:  o.HueTolerance,
			SaturationMin: o.SaturationMin,
			BlurSigma:     o.BlurSigma,
		}, "chroma key", nil
	}
}

// chroma returns the key color to matte against: the dominant color of the
// image when -auto-chroma is set, otherwise the parsed -chroma-color flag.
func (o *Options) chroma(img image.Image) (colorful.Color, error) {
	if o.AutoChroma {
		c := dominantcolor.Find(img)
		return colorful.Color{
			R: float64(c.R) / 255.0,
			G: float64(c.G) / 255.0,
			B: float64(c.B) / 255.0,
		}, nil
	}
	return imaging.ParseHexColor(o.ChromaColor)
}
