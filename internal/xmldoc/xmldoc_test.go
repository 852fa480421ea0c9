package xmldoc

import (
	"bytes"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<Package xmlns="http://schemas.microsoft.com/appx/manifest/foundation/windows10">
  <Identity Name="Contoso.Demo" Publisher="CN=Contoso" Version="1.2.3.4"/>
  <Properties>
    <DisplayName>Demo</DisplayName>
  </Properties>
</Package>`)

	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Root.Name.Local != "Package" {
		t.Errorf("root element = %q, want Package", doc.Root.Name.Local)
	}
	if !bytes.Equal(doc.Bytes(), data) {
		t.Error("Bytes() does not round-trip the input")
	}
	if len(doc.Root.Children) != 2 {
		t.Fatalf("root has %d children, want 2", len(doc.Root.Children))
	}

	identity := doc.Root.Child("Identity")
	if identity == nil {
		t.Fatal("Child(Identity) = nil")
	}
	if got := identity.Attr("Name"); got != "Contoso.Demo" {
		t.Errorf("Identity Name = %q, want Contoso.Demo", got)
	}
	if got := identity.Attr("Version"); got != "1.2.3.4" {
		t.Errorf("Identity Version = %q, want 1.2.3.4", got)
	}
	if got := identity.Attr("Nope"); got != "" {
		t.Errorf("missing attribute = %q, want empty", got)
	}

	display := doc.Root.Child("Properties").Child("DisplayName")
	if display == nil {
		t.Fatal("Child(Properties).Child(DisplayName) = nil")
	}
	if got := strings.TrimSpace(display.Text); got != "Demo" {
		t.Errorf("DisplayName text = %q, want Demo", got)
	}
	if doc.Root.Child("Missing") != nil {
		t.Error("Child(Missing) != nil")
	}
}

func TestParseAllowsPrologAndComments(t *testing.T) {
	data := []byte("<?xml version=\"1.0\"?>\n<!-- leading -->\n<Root/>\n<!-- trailing -->\n")
	doc, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Root.Name.Local != "Root" {
		t.Errorf("root element = %q, want Root", doc.Root.Name.Local)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	var table = []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace only", "  \n\t "},
		{"truncated", "<Root><Child>"},
		{"mismatched tags", "<Root><A></B></Root>"},
		{"bad markup", "<Root><<</Root>"},
		{"multiple roots", "<A/><B/>"},
		{"text outside root", "<Root/>trailing"},
		{"text before root", "leading<Root/>"},
		{"directive outside root", "<!DOCTYPE Root><Root/>"},
		{"stray close", "</Root>"},
	}

	for _, tab := range table {
		t.Run(tab.name, func(t *testing.T) {
			if _, err := Parse([]byte(tab.data)); err == nil {
				t.Errorf("Parse(%q) succeeded, want error", tab.data)
			}
		})
	}
}

func TestParseDeepNesting(t *testing.T) {
	doc, err := Parse([]byte("<a><b><c attr=\"v\"><d/></c></b></a>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	c := doc.Root.Child("b").Child("c")
	if c == nil {
		t.Fatal("nested lookup failed")
	}
	if got := c.Attr("attr"); got != "v" {
		t.Errorf("attr = %q, want v", got)
	}
	if c.Child("d") == nil {
		t.Error("Child(d) = nil")
	}
}
