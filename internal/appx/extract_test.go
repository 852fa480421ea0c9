package appx

import (
	"errors"
	"path/filepath"
	"testing"
)

const bundleTypes = `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="appx" ContentType="application/vnd.ms-appx.package+zip"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/AppxMetadata/AppxBundleManifest.xml" ContentType="application/vnd.ms-appx.bundlemanifest+xml"/>
</Types>`

const demoBundleManifest = `<?xml version="1.0" encoding="UTF-8"?>
<Bundle xmlns="http://schemas.microsoft.com/appx/2013/bundle">
  <Identity Name="Contoso.Demo" Publisher="CN=Contoso" Version="1.0.0.0"/>
  <Packages>
    <Package Type="Resource" FileName="Contoso.Demo_language-de.appx"/>
    <Package Type="Application" FileName="Contoso.Demo_x64.appx" Architecture="x64"/>
  </Packages>
</Bundle>`

// buildBundle builds a bundle container holding the given bundle manifest
// and nested packages, each package keyed by its file name inside the bundle.
func buildBundle(t *testing.T, bundleManifest string, packages []zipEntry) []byte {
	t.Helper()
	entries := []zipEntry{
		{contentTypesName, bundleTypes},
		{"AppxMetadata/AppxBundleManifest.xml", bundleManifest},
	}
	entries = append(entries, packages...)
	return buildArchive(t, entries)
}

func TestExtractFromPackage(t *testing.T) {
	path := writeArchive(t, buildPackage(t, "Contoso.Demo"))

	doc, err := ExtractFromPackage(path)
	if err != nil {
		t.Fatalf("ExtractFromPackage: %v", err)
	}
	if doc.Root.Name.Local != "Package" {
		t.Errorf("root element = %q, want Package", doc.Root.Name.Local)
	}
	id := doc.Root.Child("Identity")
	if id == nil {
		t.Fatal("manifest has no Identity element")
	}
	if got := id.Attr("Name"); got != "Contoso.Demo" {
		t.Errorf("Identity Name = %q, want Contoso.Demo", got)
	}
	if string(doc.Bytes()) != manifestNamed("Contoso.Demo") {
		t.Error("document bytes do not match the stored manifest part")
	}
}

func TestExtractFromPackageMissingFile(t *testing.T) {
	_, err := ExtractFromPackage(filepath.Join(t.TempDir(), "gone.appx"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExtractFromPackageNoManifestPart(t *testing.T) {
	// A well-formed container whose part map never yields the manifest
	// content type.
	types := `<?xml version="1.0"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="xml" ContentType="application/xml"/>
</Types>`
	data := buildArchive(t, []zipEntry{
		{contentTypesName, types},
		{"AppxManifest.xml", manifestNamed("Contoso.Demo")},
	})
	_, err := ExtractFromPackage(writeArchive(t, data))
	if !errors.Is(err, ErrPartNotFound) {
		t.Fatalf("expected ErrPartNotFound, got %v", err)
	}
}

func TestExtractFromPackageMalformedManifest(t *testing.T) {
	data := buildArchive(t, []zipEntry{
		{contentTypesName, packageTypes},
		{"AppxManifest.xml", "<Package><Identity</Package>"},
	})
	_, err := ExtractFromPackage(writeArchive(t, data))
	if !errors.Is(err, ErrInvalidXML) {
		t.Fatalf("expected ErrInvalidXML, got %v", err)
	}
}

func TestExtractFromBundle(t *testing.T) {
	data := buildBundle(t, demoBundleManifest, []zipEntry{
		{"Contoso.Demo_language-de.appx", string(buildPackage(t, "Contoso.Demo.DE"))},
		{"Contoso.Demo_x64.appx", string(buildPackage(t, "Contoso.Demo"))},
	})
	doc, err := ExtractFromBundle(writeArchive(t, data))
	if err != nil {
		t.Fatalf("ExtractFromBundle: %v", err)
	}
	if doc.Root.Name.Local != "Package" {
		t.Errorf("root element = %q, want Package", doc.Root.Name.Local)
	}
	id := doc.Root.Child("Identity")
	if id == nil {
		t.Fatal("manifest has no Identity element")
	}
	// The application package's manifest, not the resource package's.
	if got := id.Attr("Name"); got != "Contoso.Demo" {
		t.Errorf("Identity Name = %q, want Contoso.Demo", got)
	}
}

func TestExtractFromBundleMissingFile(t *testing.T) {
	_, err := ExtractFromBundle(filepath.Join(t.TempDir(), "gone.appxbundle"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExtractFromBundleFirstApplicationWins(t *testing.T) {
	manifest := `<?xml version="1.0"?>
<Bundle xmlns="http://schemas.microsoft.com/appx/2013/bundle">
  <Packages>
    <Package Type="Application" FileName="first.appx"/>
    <Package Type="Application" FileName="second.appx"/>
  </Packages>
</Bundle>`
	data := buildBundle(t, manifest, []zipEntry{
		{"second.appx", string(buildPackage(t, "Contoso.Second"))},
		{"first.appx", string(buildPackage(t, "Contoso.First"))},
	})
	doc, err := ExtractFromBundle(writeArchive(t, data))
	if err != nil {
		t.Fatalf("ExtractFromBundle: %v", err)
	}
	if got := doc.Root.Child("Identity").Attr("Name"); got != "Contoso.First" {
		t.Errorf("Identity Name = %q, want Contoso.First", got)
	}
}

func TestExtractFromBundleTypeIsCaseSensitive(t *testing.T) {
	manifest := `<?xml version="1.0"?>
<Bundle xmlns="http://schemas.microsoft.com/appx/2013/bundle">
  <Packages>
    <Package Type="application" FileName="lower.appx"/>
    <Package Type="Application" FileName="upper.appx"/>
  </Packages>
</Bundle>`
	data := buildBundle(t, manifest, []zipEntry{
		{"lower.appx", string(buildPackage(t, "Contoso.Lower"))},
		{"upper.appx", string(buildPackage(t, "Contoso.Upper"))},
	})
	doc, err := ExtractFromBundle(writeArchive(t, data))
	if err != nil {
		t.Fatalf("ExtractFromBundle: %v", err)
	}
	if got := doc.Root.Child("Identity").Attr("Name"); got != "Contoso.Upper" {
		t.Errorf("Identity Name = %q, want Contoso.Upper", got)
	}
}

func TestExtractFromBundleNoApplication(t *testing.T) {
	manifest := `<?xml version="1.0"?>
<Bundle xmlns="http://schemas.microsoft.com/appx/2013/bundle">
  <Packages>
    <Package Type="Resource" FileName="Contoso.Demo_language-de.appx"/>
  </Packages>
</Bundle>`
	data := buildBundle(t, manifest, []zipEntry{
		{"Contoso.Demo_language-de.appx", string(buildPackage(t, "Contoso.Demo.DE"))},
	})
	_, err := ExtractFromBundle(writeArchive(t, data))
	if !errors.Is(err, ErrNoMainPackage) {
		t.Fatalf("expected ErrNoMainPackage, got %v", err)
	}
}

func TestExtractFromBundleNoBundleManifestPart(t *testing.T) {
	// A plain package is a valid container but has no bundle manifest part.
	_, err := ExtractFromBundle(writeArchive(t, buildPackage(t, "Contoso.Demo")))
	if !errors.Is(err, ErrPartNotFound) {
		t.Fatalf("expected ErrPartNotFound, got %v", err)
	}
}

func TestExtractFromBundleDanglingFileName(t *testing.T) {
	// The bundle manifest names a package part that is not in the archive.
	data := buildBundle(t, demoBundleManifest, []zipEntry{
		{"Contoso.Demo_language-de.appx", string(buildPackage(t, "Contoso.Demo.DE"))},
	})
	_, err := ExtractFromBundle(writeArchive(t, data))
	if !errors.Is(err, ErrPartNotFound) {
		t.Fatalf("expected ErrPartNotFound, got %v", err)
	}
}

func TestExtractFromBundleMalformedBundleManifest(t *testing.T) {
	data := buildBundle(t, "<Bundle><Packages>", nil)
	_, err := ExtractFromBundle(writeArchive(t, data))
	if !errors.Is(err, ErrInvalidXML) {
		t.Fatalf("expected ErrInvalidXML, got %v", err)
	}
}

func TestExtractFromBundleManifestTrailingContent(t *testing.T) {
	// Content after the bundle manifest's root element is malformed XML,
	// not something to skip past. Both named packages are present, so a
	// pass here could only come from reading the first root best-effort.
	var table = []struct {
		name     string
		manifest string
	}{
		{"trailing garbage", demoBundleManifest + "<<< leftover bytes >>>"},
		{"second root", demoBundleManifest + `<Bundle><Packages><Package Type="Application" FileName="Contoso.Demo_language-de.appx"/></Packages></Bundle>`},
	}

	for _, tab := range table {
		t.Run(tab.name, func(t *testing.T) {
			data := buildBundle(t, tab.manifest, []zipEntry{
				{"Contoso.Demo_language-de.appx", string(buildPackage(t, "Contoso.Demo.DE"))},
				{"Contoso.Demo_x64.appx", string(buildPackage(t, "Contoso.Demo"))},
			})
			_, err := ExtractFromBundle(writeArchive(t, data))
			if !errors.Is(err, ErrInvalidXML) {
				t.Fatalf("expected ErrInvalidXML, got %v", err)
			}
		})
	}
}

func TestExtractFromBundleBadMainPackage(t *testing.T) {
	data := buildBundle(t, demoBundleManifest, []zipEntry{
		{"Contoso.Demo_x64.appx", "not an archive"},
	})
	_, err := ExtractFromBundle(writeArchive(t, data))
	if !errors.Is(err, ErrInvalidContainer) {
		t.Fatalf("expected ErrInvalidContainer, got %v", err)
	}
}
