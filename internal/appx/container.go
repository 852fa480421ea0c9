// Package appx reads Windows app package containers (.appx/.msix) and
// bundles (.appxbundle/.msixbundle) without unpacking them. A container is
// a ZIP archive whose entries are mapped to declared content types by the
// [Content_Types].xml part map; the package locates parts by content type
// or by name and extracts the application manifest, resolving one level of
// bundle indirection for bundles.
package appx

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/jlaanstra/appxmanifest/internal/xmldoc"
	"github.com/klauspost/compress/flate"
)

// contentTypesName is the well-known location of the part map inside a
// container. The entry describes the other entries and is not itself a part.
const contentTypesName = "[Content_Types].xml"

// Container is an open, read-only package container. It owns the
// underlying byte source for the duration of one extraction and must be
// closed exactly once.
type Container struct {
	closer io.Closer
	parts  []*Part
}

// Part is a single named, typed entry inside a container. A part never
// outlives the container it came from.
type Part struct {
	// Name is the part URI, unique within the container and prefixed
	// with "/".
	Name string

	// ContentType is the content type declared for the part in
	// [Content_Types].xml, or "" when the part map does not cover it.
	ContentType string

	// Size is the part's uncompressed size in bytes.
	Size uint64

	file *zip.File
}

// OpenContainer opens the package container at the given file path.
// It returns ErrNotFound when the path does not reference an existing
// file and ErrInvalidContainer when the file is not a package container.
func OpenContainer(name string) (*Container, error) {
	f, err := os.Open(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("opening container %s: %w", name, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("statting container %s: %w", name, err)
	}

	c, err := newContainer(f, info.Size(), f)
	if err != nil {
		f.Close()
		return nil, err
	}

	return c, nil
}

// NewContainer opens a container over an in-memory byte source. This is
// how the inner package of a bundle is opened: its bytes come out of a
// part stream and are never written to disk.
func NewContainer(r io.ReaderAt, size int64) (*Container, error) {
	return newContainer(r, size, nil)
}

func newContainer(r io.ReaderAt, size int64, closer io.Closer) (*Container, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContainer, err)
	}

	// The package-level zip registration panics for built-in methods, so
	// the deflate decompressor is installed per reader.
	zr.RegisterDecompressor(zip.Deflate, flate.NewReader)

	parts, err := readParts(zr)
	if err != nil {
		return nil, err
	}

	return &Container{closer: closer, parts: parts}, nil
}

// Close releases the underlying byte source. Containers over in-memory
// sources have nothing to release; Close is still safe to call, and
// calling it again after a successful Close is a no-op.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}

	err := c.closer.Close()
	c.closer = nil

	if err != nil {
		return fmt.Errorf("closing container: %w", err)
	}

	return nil
}

// Parts returns the container's parts in archive enumeration order.
func (c *Container) Parts() []*Part {
	return c.parts
}

// PartByContentType returns the first part, in enumeration order, whose
// declared content type equals ct. The comparison is exact and
// case-sensitive; when several parts match, the first one wins.
func (c *Container) PartByContentType(ct string) (*Part, error) {
	for _, p := range c.parts {
		if p.ContentType == ct {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: no part with content type %s", ErrPartNotFound, ct)
}

// PartByName returns the part with the given URI.
func (c *Container) PartByName(name string) (*Part, error) {
	for _, p := range c.parts {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
}

// Open returns a fresh read stream over the part's bytes. The caller
// must close the stream before, or alongside, closing the container.
func (p *Part) Open() (io.ReadCloser, error) {
	rc, err := p.file.Open()
	if err != nil {
		return nil, fmt.Errorf("opening part %s: %w", p.Name, err)
	}
	return rc, nil
}

// readParts builds the part collection from the archive entries. The
// part map entry itself and directory entries are not parts.
func readParts(zr *zip.Reader) ([]*Part, error) {
	var typesFile *zip.File
	for _, f := range zr.File {
		if f.Name == contentTypesName {
			typesFile = f
			break
		}
	}
	if typesFile == nil {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidContainer, contentTypesName)
	}

	types, err := readContentTypes(typesFile)
	if err != nil {
		return nil, err
	}

	var parts []*Part
	for _, f := range zr.File {
		if f.Name == contentTypesName || strings.HasSuffix(f.Name, "/") {
			continue
		}
		name := "/" + f.Name
		parts = append(parts, &Part{
			Name:        name,
			ContentType: types.lookup(name),
			Size:        f.UncompressedSize64,
			file:        f,
		})
	}

	return parts, nil
}

// partTypes resolves a part name to its declared content type. An exact
// Override wins over an extension Default; extension matching is
// case-insensitive.
type partTypes struct {
	defaults  map[string]string
	overrides map[string]string
}

// readContentTypes parses the part map. Default elements map file
// extensions to content types, Override elements map exact part names.
// The part map is parsed with the same strict rules as every other XML
// part, so trailing content or a second root invalidates the container.
func readContentTypes(f *zip.File) (*partTypes, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", contentTypesName, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", contentTypesName, err)
	}

	doc, err := xmldoc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidContainer, contentTypesName, err)
	}

	types := &partTypes{
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
	}
	for _, el := range doc.Root.Children {
		switch el.Name.Local {
		case "Default":
			types.defaults[strings.ToLower(el.Attr("Extension"))] = el.Attr("ContentType")
		case "Override":
			types.overrides[el.Attr("PartName")] = el.Attr("ContentType")
		}
	}

	return types, nil
}

func (t *partTypes) lookup(name string) string {
	if ct, ok := t.overrides[name]; ok {
		return ct
	}
	ext := strings.TrimPrefix(path.Ext(name), ".")
	if ext == "" {
		return ""
	}
	return t.defaults[strings.ToLower(ext)]
}
