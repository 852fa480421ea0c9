package appx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jlaanstra/appxmanifest/internal/xmldoc"
)

// Content types identifying the manifest parts of a container. Part
// lookup is an exact string match on these values.
const (
	ManifestContentType       = "application/vnd.ms-appx.manifest+xml"
	BundleManifestContentType = "application/vnd.ms-appx.bundlemanifest+xml"
)

// applicationPackageType marks the main package among the entries of a
// bundle manifest.
const applicationPackageType = "Application"

// ExtractFromPackage opens the package container at path and returns its
// application manifest as a parsed XML document. The container is
// released before returning, on success and on failure.
func ExtractFromPackage(path string) (*xmldoc.Document, error) {
	c, err := OpenContainer(path)
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return readManifest(c)
}

// ExtractFromBundle opens the bundle container at path, resolves its
// main application package, and returns that package's application
// manifest as a parsed XML document. The main package is read out of the
// bundle into memory and opened as a nested container; it is released
// before the bundle itself, and both are released before returning.
func ExtractFromBundle(path string) (*xmldoc.Document, error) {
	outer, err := OpenContainer(path)
	if err != nil {
		return nil, err
	}
	defer outer.Close()

	fileName, err := mainPackageFileName(outer)
	if err != nil {
		return nil, err
	}

	// The bundle manifest names its packages without the URI prefix.
	mainPart, err := outer.PartByName("/" + fileName)
	if err != nil {
		return nil, err
	}

	data, err := readPart(mainPart)
	if err != nil {
		return nil, err
	}

	inner, err := NewContainer(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening main package %s: %w", mainPart.Name, err)
	}
	defer inner.Close()

	return readManifest(inner)
}

// readManifest resolves the application manifest part of an open
// container and parses it.
func readManifest(c *Container) (*xmldoc.Document, error) {
	part, err := c.PartByContentType(ManifestContentType)
	if err != nil {
		return nil, err
	}

	data, err := readPart(part)
	if err != nil {
		return nil, err
	}

	doc, err := xmldoc.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: manifest part %s: %v", ErrInvalidXML, part.Name, err)
	}

	return doc, nil
}

// mainPackageFileName parses the bundle manifest of an open bundle
// container and returns the file name of its main application package.
// When the manifest lists several application packages the first in
// document order wins; when it lists none the bundle is unusable and
// the result is ErrNoMainPackage.
func mainPackageFileName(c *Container) (string, error) {
	part, err := c.PartByContentType(BundleManifestContentType)
	if err != nil {
		return "", err
	}

	data, err := readPart(part)
	if err != nil {
		return "", err
	}

	doc, err := xmldoc.Parse(data)
	if err != nil {
		return "", fmt.Errorf("%w: bundle manifest part %s: %v", ErrInvalidXML, part.Name, err)
	}

	// The root element's name is not constrained; only the Type and
	// FileName attributes of its Packages>Package entries are consulted.
	if packages := doc.Root.Child("Packages"); packages != nil {
		for _, pkg := range packages.Children {
			if pkg.Name.Local != "Package" {
				continue
			}
			if pkg.Attr("Type") == applicationPackageType {
				return pkg.Attr("FileName"), nil
			}
		}
	}

	return "", fmt.Errorf("%w: bundle manifest %s lists no %s package", ErrNoMainPackage, part.Name, applicationPackageType)
}

// readPart reads a part's full contents, releasing the part stream
// before returning.
func readPart(p *Part) ([]byte, error) {
	rc, err := p.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading part %s: %w", p.Name, err)
	}

	return data, nil
}
