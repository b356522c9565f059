package analyzer

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"atscore/internal/errors"
	"atscore/internal/types"
)

const (
	docxBody     = "word/document.xml"
	docxAppProps = "docProps/app.xml"
	wordNS       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

// DocxDecoder reads Office Open XML documents. Text comes from the body
// paragraphs; fonts and sizes come from run properties.
type DocxDecoder struct{}

var _ Decoder = DocxDecoder{}

func (DocxDecoder) Extract(ctx context.Context, path string) (*types.ExtractedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readLimited(path)
	if err != nil {
		return nil, err
	}

	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, decodeError(path, "not a valid DOCX archive", err)
	}

	body, err := readZipEntry(archive, docxBody)
	if err != nil {
		return nil, decodeError(path, "missing document body", err)
	}

	doc, err := parseDocumentXML(body)
	if err != nil {
		return nil, decodeError(path, "malformed document body", err)
	}
	doc.SourcePath = path

	// docProps/app.xml is optional and only refines the page estimate
	if props, err := readZipEntry(archive, docxAppProps); err == nil {
		if pages, ok := parseAppPages(props); ok {
			doc.PageCount = max(pages, estimatePages(doc.RawText))
		}
	}

	return doc, nil
}

func decodeError(path, reason string, cause error) error {
	return errors.NewIOError(errors.ErrCodeDecodeFailed,
		fmt.Sprintf("Cannot decode %s: %s", filepath.Base(path), reason), cause)
}

func readZipEntry(archive *zip.Reader, name string) ([]byte, error) {
	for _, f := range archive.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer func() { _ = rc.Close() }()
		return io.ReadAll(io.LimitReader(rc, maxDecodeBytes))
	}
	return nil, fmt.Errorf("%s not found in archive", name)
}

// parseDocumentXML walks word/document.xml as a token stream
func parseDocumentXML(body []byte) (*types.ExtractedDocument, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		text       strings.Builder
		inText     bool
		pageBreaks int
		hasTables  bool
		hasImages  bool
		fonts      = map[string]struct{}{}
		sizes      = map[float64]struct{}{}
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				text.WriteByte('\t')
			case "br":
				if attr(t, "type") == "page" {
					pageBreaks++
				} else {
					text.WriteByte('\n')
				}
			case "tbl":
				hasTables = true
			case "drawing", "pict":
				hasImages = true
			case "rFonts":
				if name := attr(t, "ascii"); name != "" {
					fonts[name] = struct{}{}
				}
			case "sz":
				// half-points
				if v, err := strconv.Atoi(attr(t, "val")); err == nil && v > 0 {
					sizes[float64(v)/2] = struct{}{}
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordNS {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				text.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				text.Write(t)
			}
		}
	}

	raw := strings.TrimRight(text.String(), "\n")
	return &types.ExtractedDocument{
		RawText:   raw,
		PageCount: max(pageBreaks+1, estimatePages(raw)),
		FontsUsed: sortedKeys(fonts),
		FontSizes: sortedKeys(sizes),
		HasTables: hasTables,
		HasImages: hasImages,
	}, nil
}

func attr(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func parseAppPages(props []byte) (int, bool) {
	var app struct {
		Pages int `xml:"Pages"`
	}
	if err := xml.Unmarshal(props, &app); err != nil || app.Pages <= 0 {
		return 0, false
	}
	return app.Pages, true
}

func sortedKeys[K string | float64](m map[K]struct{}) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
