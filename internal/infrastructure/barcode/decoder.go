package barcode

import (
	"fmt"
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/datamatrix"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/rs/zerolog/log"

	"github.com/ecocart/backend/internal/infrastructure/imaging"
)

// Decoder finds 1D and 2D barcodes with the ZXing port. Readers are tried
// in a fixed order and the first successful decode wins, so an image with
// several symbols always yields the same one.
//
// gozxing readers keep scratch buffers between calls, so a fresh set is
// built for every decode. A Decoder is safe for concurrent use.
type Decoder struct {
	readers []namedReader
	hints   map[gozxing.DecodeHintType]interface{}
}

type namedReader struct {
	name   string
	create func() gozxing.Reader
}

// NewDecoder creates a decoder for retail (EAN/UPC), Code 128, Code 39,
// QR and Data Matrix symbols.
func NewDecoder() *Decoder {
	return &Decoder{
		readers: []namedReader{
			{"upc-ean", func() gozxing.Reader { return oned.NewMultiFormatUPCEANReader(nil) }},
			{"code128", oned.NewCode128Reader},
			{"code39", oned.NewCode39Reader},
			{"qrcode", qrcode.NewQRCodeReader},
			{"datamatrix", func() gozxing.Reader { return datamatrix.NewDataMatrixReader() }},
		},
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Decode returns the text of the first symbol found, or "" when the image
// decodes fine but holds no barcode.
func (d *Decoder) Decode(imageData []byte) (string, error) {
	img, _, err := imaging.Decode(imageData)
	if err != nil {
		return "", err
	}
	return d.DecodeImage(img)
}

// DecodeImage runs the readers over an already decoded image
func (d *Decoder) DecodeImage(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to binarize image: %w", err)
	}

	for _, r := range d.readers {
		result, err := r.create().Decode(bmp, d.hints)
		if err != nil {
			continue
		}
		if text := result.GetText(); text != "" {
			log.Debug().Str("reader", r.name).Str("barcode", text).Msg("Barcode decoded")
			return text, nil
		}
	}
	return "", nil
}
