package images

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/harpreet-2146/Prism/internal/core"
)

// PdfcpuSource enumerates embedded raster images via pdfcpu. It runs
// single-threaded; no rendering engine is involved.
type PdfcpuSource struct {
	conf *model.Configuration
}

func NewPdfcpuSource() *PdfcpuSource {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &PdfcpuSource{conf: conf}
}

// ExtractImages returns every embedded image in the document, ordered by
// page number and, within a page, by object number so repeated runs see
// the same sequence.
func (s *PdfcpuSource) ExtractImages(path string) ([]core.EmbeddedImage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	perPage, err := api.ExtractImagesRaw(f, nil, s.conf)
	if err != nil {
		return nil, fmt.Errorf("extract embedded images: %w", err)
	}

	var out []core.EmbeddedImage
	for _, pageImages := range perPage {
		objNrs := make([]int, 0, len(pageImages))
		for objNr := range pageImages {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := pageImages[objNr]
			if img.Thumb {
				continue
			}
			data, err := io.ReadAll(img)
			if err != nil {
				continue
			}
			out = append(out, core.EmbeddedImage{
				PageNumber: img.PageNr,
				Data:       data,
				FileType:   img.FileType,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].PageNumber < out[j].PageNumber })
	return out, nil
}

var _ core.EmbeddedImageSource = (*PdfcpuSource)(nil)
