package document

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// Kind classifies an input document by how the pipeline has to treat it.
type Kind int

const (
	// KindImage is a raster scan of a statement page.
	KindImage Kind = iota
	// KindPDF is a rendered statement document.
	KindPDF
	// KindText is anything else: read as plain UTF-8 text.
	KindText
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".bmp":  "image/bmp",
	".gif":  "image/gif",
	".heic": "image/heic",
	".heif": "image/heif",
}

// Detect classifies a file by extension and returns its kind plus a MIME
// content type.
func Detect(path string) (Kind, string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return KindPDF, "application/pdf"
	}
	if mime, ok := imageTypes[ext]; ok {
		return KindImage, mime
	}
	return KindText, "text/plain"
}

// RenderPages renders every page of a PDF document to a PNG image.
func RenderPages(pdfData []byte) ([][]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer doc.Close()

	pages := make([][]byte, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.Image(i)
		if err != nil {
			return nil, fmt.Errorf("rendering PDF page %d: %w", i, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding page %d as PNG: %w", i, err)
		}
		pages = append(pages, buf.Bytes())
	}
	return pages, nil
}

// ToPNG converts an image of any supported format to PNG. PNG input is
// returned as-is.
func ToPNG(imageData []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	if mimeType == "image/png" && !isHEICFormat(imageData) {
		return imageData, nil
	}

	var img image.Image
	var err error
	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		// Go's standard image package has no HEIC/HEIF support.
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF image: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
				return nil, fmt.Errorf("unsupported image format. Supported formats: JPEG, PNG, GIF, HEIC, HEIF, PDF. Error: %w", err)
			}
			return nil, fmt.Errorf("decoding image: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// Pages normalizes any supported document into a list of PNG page images:
// one per PDF page, or a single converted image.
func Pages(data []byte, contentType string) ([][]byte, error) {
	if contentType == "application/pdf" {
		return RenderPages(data)
	}
	pngData, err := ToPNG(data, contentType)
	if err != nil {
		return nil, err
	}
	return [][]byte{pngData}, nil
}

// isHEICFormat checks the ftyp box brands HEIC/HEIF files start with.
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) != "ftyp" {
		return false
	}
	switch string(data[8:12]) {
	case "heic", "heif", "mif1", "msf1":
		return true
	}
	return false
}

func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}
