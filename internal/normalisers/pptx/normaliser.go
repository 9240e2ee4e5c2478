// Package pptx extracts shape text from PowerPoint presentations.
package pptx

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
	"github.com/custodia-labs/bucketqa/internal/core/ports/driven"
	"github.com/custodia-labs/bucketqa/internal/normalisers/ooxml"
)

// Ensure Parser implements the interface.
var _ driven.TextParser = (*Parser)(nil)

const presentationPart = "ppt/presentation.xml"

// slidePartRe matches slide parts and captures their number.
var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Parser reads slides in presentation order.
type Parser struct{}

// New creates a new PPTX parser.
func New() *Parser {
	return &Parser{}
}

// Type returns domain.TypePresentation.
func (p *Parser) Type() domain.DocumentType {
	return domain.TypePresentation
}

// Name identifies the parser in diagnostics.
func (p *Parser) Name() string {
	return "pptx"
}

// Parse returns the trimmed text of every top-level shape that has any,
// slide by slide, joined by newlines.
func (p *Parser) Parse(ctx context.Context, path string) (string, error) {
	zr, err := ooxml.Open(path)
	if err != nil {
		return "", err
	}
	defer zr.Close()

	slides, err := slideOrder(&zr.Reader)
	if err != nil {
		return "", err
	}

	var texts []string
	for _, slide := range slides {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		shapes, err := slideShapeTexts(&zr.Reader, slide)
		if err != nil {
			return "", err
		}
		for _, s := range shapes {
			if s = strings.TrimSpace(s); s != "" {
				texts = append(texts, s)
			}
		}
	}

	return strings.TrimSpace(strings.Join(texts, "\n")), nil
}

type presentationXML struct {
	SlideIDs []struct {
		RelID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"sldIdLst>sldId"`
}

// slideOrder lists slide parts as ordered by presentation.xml. Packages
// without a usable slide list fall back to numeric part order.
func slideOrder(zr *zip.Reader) ([]string, error) {
	var pres presentationXML
	err := ooxml.Decode(zr, presentationPart, &pres)
	if err != nil && !errors.Is(err, ooxml.ErrPartNotFound) {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	if err == nil && len(pres.SlideIDs) > 0 {
		rels, relErr := ooxml.ReadRelationships(zr, presentationPart)
		if relErr == nil {
			slides := make([]string, 0, len(pres.SlideIDs))
			for _, id := range pres.SlideIDs {
				if target, ok := rels[id.RelID]; ok {
					slides = append(slides, target)
				}
			}
			if len(slides) > 0 {
				return slides, nil
			}
		}
	}

	return numericSlideOrder(zr), nil
}

func numericSlideOrder(zr *zip.Reader) []string {
	type numbered struct {
		name string
		n    int
	}
	var found []numbered
	for _, f := range zr.File {
		m := slidePartRe.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		found = append(found, numbered{name: f.Name, n: n})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	slides := make([]string, len(found))
	for i, s := range found {
		slides[i] = s.name
	}
	return slides
}

// slideShapeTexts returns the text of each top-level p:sp on a slide.
// Paragraphs within a shape are joined by newlines. Group members are not
// visited.
func slideShapeTexts(zr *zip.Reader, part string) ([]string, error) {
	dec, closer, err := ooxml.Stream(zr, part)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	defer closer.Close()

	var (
		shapes    []string
		shape     strings.Builder
		para      strings.Builder
		paraCount int
		treeDepth int // nesting of spTree/grpSp containers
		inShape   bool
		inText    bool
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return shapes, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", part, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "spTree", "grpSp":
				treeDepth++
			case "sp":
				if treeDepth == 1 && !inShape {
					inShape = true
					shape.Reset()
					paraCount = 0
				}
			case "p":
				if inShape {
					para.Reset()
				}
			case "t":
				inText = inShape
			case "br":
				if inShape {
					para.WriteByte('\n')
				}
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "spTree", "grpSp":
				treeDepth--
			case "t":
				inText = false
			case "p":
				if inShape {
					if paraCount > 0 {
						shape.WriteByte('\n')
					}
					shape.WriteString(para.String())
					paraCount++
				}
			case "sp":
				if inShape && treeDepth == 1 {
					inShape = false
					shapes = append(shapes, shape.String())
				}
			}
		}
	}
}
