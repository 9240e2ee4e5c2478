// Package ooxml reads parts of Office Open XML packages.
package ooxml

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/custodia-labs/bucketqa/internal/core/domain"
)

// ErrPartNotFound is returned when a package part is missing.
var ErrPartNotFound = errors.New("package part not found")

// Open opens the package at path. Files that are not zip archives yield
// domain.ErrInvalidInput.
func Open(path string) (*zip.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open package: %v", domain.ErrInvalidInput, err)
	}
	return zr, nil
}

// Find returns the part with the given name.
func Find(zr *zip.Reader, name string) (*zip.File, error) {
	for _, f := range zr.File {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
}

// Decode unmarshals the named XML part into v.
func Decode(zr *zip.Reader, name string, v any) error {
	f, err := Find(zr, name)
	if err != nil {
		return err
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	if err := xml.NewDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Stream opens the named part for token-level decoding.
func Stream(zr *zip.Reader, name string) (*xml.Decoder, io.Closer, error) {
	f, err := Find(zr, name)
	if err != nil {
		return nil, nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", name, err)
	}
	return xml.NewDecoder(rc), rc, nil
}

// Relationships maps relationship IDs to targets resolved against the
// directory of the owning part.
type Relationships map[string]string

type relsXML struct {
	Relationships []struct {
		ID     string `xml:"Id,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// ReadRelationships loads the .rels part that belongs to part.
func ReadRelationships(zr *zip.Reader, part string) (Relationships, error) {
	dir, file := path.Split(part)
	var rels relsXML
	if err := Decode(zr, dir+"_rels/"+file+".rels", &rels); err != nil {
		return nil, err
	}

	out := make(Relationships, len(rels.Relationships))
	for _, r := range rels.Relationships {
		target := r.Target
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Clean(path.Join(dir, target))
		}
		out[r.ID] = target
	}
	return out, nil
}
