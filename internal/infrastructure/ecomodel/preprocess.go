package ecomodel

import (
	"fmt"
	"image"

	"github.com/ecocart/backend/internal/infrastructure/imaging"
)

// InputSize is the square edge length the model was trained on
const InputSize = 224

// Normalization selects how 0-255 pixel values are scaled before inference
type Normalization string

const (
	// NormalizationNone feeds raw 0-255 values (EfficientNet includes its own rescaling)
	NormalizationNone Normalization = "none"
	// NormalizationUnit scales to [0,1]
	NormalizationUnit Normalization = "unit"
	// NormalizationImageNet scales to [0,1] then standardizes per channel
	NormalizationImageNet Normalization = "imagenet"
)

var (
	imageNetMean = [3]float32{0.485, 0.456, 0.406}
	imageNetStd  = [3]float32{0.229, 0.224, 0.225}
)

// ParseNormalization validates a configured normalization name
func ParseNormalization(name string) (Normalization, error) {
	switch n := Normalization(name); n {
	case NormalizationNone, NormalizationUnit, NormalizationImageNet:
		return n, nil
	case "":
		return NormalizationNone, nil
	default:
		return "", fmt.Errorf("unknown normalization %q", name)
	}
}

// Preprocess resizes img to InputSize x InputSize RGB and returns it as a
// row-major HxWx3 tensor scaled according to mode.
func Preprocess(img image.Image, mode Normalization) [][][3]float32 {
	rgba := imaging.Resize(img, InputSize, InputSize)

	tensor := make([][][3]float32, InputSize)
	for y := 0; y < InputSize; y++ {
		row := make([][3]float32, InputSize)
		for x := 0; x < InputSize; x++ {
			i := rgba.PixOffset(x, y)
			px := [3]float32{
				float32(rgba.Pix[i]),
				float32(rgba.Pix[i+1]),
				float32(rgba.Pix[i+2]),
			}
			row[x] = normalize(px, mode)
		}
		tensor[y] = row
	}
	return tensor
}

func normalize(px [3]float32, mode Normalization) [3]float32 {
	switch mode {
	case NormalizationUnit:
		for c := range px {
			px[c] /= 255
		}
	case NormalizationImageNet:
		for c := range px {
			px[c] = (px[c]/255 - imageNetMean[c]) / imageNetStd[c]
		}
	}
	return px
}
