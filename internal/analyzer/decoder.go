package analyzer

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"atscore/internal/errors"
	"atscore/internal/types"
)

const (
	linesPerPage   = 55
	tableMinPipes  = 3
	maxDecodeBytes = 10 << 20
)

var markdownImage = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)

// Decoder turns a resume file into an ExtractedDocument
type Decoder interface {
	Extract(ctx context.Context, path string) (*types.ExtractedDocument, error)
}

// TextDecoder reads plain text and markdown resumes. Font data is never
// available, so FontsUsed and FontSizes stay empty.
type TextDecoder struct{}

var _ Decoder = TextDecoder{}

func (TextDecoder) Extract(ctx context.Context, path string) (*types.ExtractedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := readLimited(path)
	if err != nil {
		return nil, err
	}
	text := strings.ToValidUTF8(string(data), "")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	return &types.ExtractedDocument{
		RawText:    text,
		PageCount:  estimatePages(text),
		FontsUsed:  []string{},
		HasTables:  hasTextTable(text),
		HasImages:  markdownImage.MatchString(text),
		SourcePath: path,
	}, nil
}

// estimatePages assumes a fixed number of lines per printed page
func estimatePages(text string) int {
	lines := strings.Count(text, "\n") + 1
	return max(1, (lines+linesPerPage-1)/linesPerPage)
}

// hasTextTable looks for pipe-delimited rows as used by markdown tables
func hasTextTable(text string) bool {
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), maxDecodeBytes)
	for scanner.Scan() {
		if strings.Count(scanner.Text(), "|") >= tableMinPipes {
			return true
		}
	}
	return false
}

func readLimited(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeDecodeFailed,
			fmt.Sprintf("Cannot read resume: %s", filepath.Base(path)), err)
	}
	if info.Size() > maxDecodeBytes {
		return nil, errors.NewIOError(errors.ErrCodeDecodeFailed,
			fmt.Sprintf("Resume is too large: %d bytes", info.Size()), nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeDecodeFailed,
			fmt.Sprintf("Cannot read resume: %s", filepath.Base(path)), err)
	}
	return data, nil
}

// DecoderSet picks a decoder by file extension
type DecoderSet struct {
	byExt map[string]Decoder
}

var _ Decoder = (*DecoderSet)(nil)

// NewDecoderSet registers the built-in decoders
func NewDecoderSet() *DecoderSet {
	s := &DecoderSet{byExt: make(map[string]Decoder)}
	for _, ext := range []string{".txt", ".text", ".md", ".markdown"} {
		s.Register(ext, TextDecoder{})
	}
	s.Register(".docx", DocxDecoder{})
	return s
}

// Register binds ext (with leading dot) to d
func (s *DecoderSet) Register(ext string, d Decoder) {
	s.byExt[strings.ToLower(ext)] = d
}

// Extensions lists the registered extensions in sorted order
func (s *DecoderSet) Extensions() []string {
	exts := make([]string, 0, len(s.byExt))
	for ext := range s.byExt {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

func (s *DecoderSet) Extract(ctx context.Context, path string) (*types.ExtractedDocument, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".pdf" {
		return nil, errors.NewIOError(errors.ErrCodeDecodeFailed,
			"PDF resumes are not supported; convert to DOCX or plain text", nil).
			WithContext("extension", ext)
	}

	d, ok := s.byExt[ext]
	if !ok {
		return nil, errors.NewIOError(errors.ErrCodeDecodeFailed,
			fmt.Sprintf("Unsupported resume format %q (supported: %s)", ext, strings.Join(s.Extensions(), ", ")), nil).
			WithContext("extension", ext)
	}
	return d.Extract(ctx, path)
}
