package deck

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
</Types>`

func titleShape(title string) string {
	return `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>` + title + `</a:t></a:r></a:p></p:txBody></p:sp>`
}

func textShape(id int, text string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr/>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, id, id, text)
}

func lineShape(x, y, cx, cy int) string {
	return fmt.Sprintf(`<p:cxnSp><p:nvCxnSpPr><p:cNvPr id="10" name="Line 1"/><p:cNvCxnSpPr/><p:nvPr/></p:nvCxnSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="line"><a:avLst/></a:prstGeom></p:spPr></p:cxnSp>`, x, y, cx, cy)
}

func circleShape(x, y, cx, cy int) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="11" name="Oval 1"/><p:cNvSpPr/><p:nvPr/></p:nvSpPr>`+
		`<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="ellipse"><a:avLst/></a:prstGeom>`+
		`<a:solidFill><a:srgbClr val="ED7D31"/></a:solidFill></p:spPr>`+
		`<p:txBody><a:bodyPr/><a:lstStyle/><a:p/></p:txBody></p:sp>`, x, y, cx, cy)
}

func slide(blocks ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree>` + strings.Join(blocks, "") + `</p:spTree></p:cSld></p:sld>`
}

func template(t *testing.T, slides ...string) string {
	t.Helper()

	var b bytes.Buffer
	w := zip.NewWriter(&b)

	parts := map[string]string{
		"[Content_Types].xml":  contentTypes,
		"ppt/presentation.xml": `<p:presentation/>`,
	}

	for i, s := range slides {
		parts[fmt.Sprintf("ppt/slides/slide%d.xml", i+1)] = s
	}

	for name, content := range parts {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Unexpected error creating template part (%v)", err)
		}

		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Unexpected error writing template part (%v)", err)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Unexpected error closing template (%v)", err)
	}

	path := filepath.Join(t.TempDir(), "template.pptx")
	if err := os.WriteFile(path, b.Bytes(), 0600); err != nil {
		t.Fatalf("Unexpected error writing template (%v)", err)
	}

	return path
}

func reopen(t *testing.T, path string) map[string]string {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Unexpected error reopening deck (%v)", err)
	}

	defer r.Close()

	parts := map[string]string{}
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Unexpected error reading part %s (%v)", f.Name, err)
		}

		bytes, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Unexpected error reading part %s (%v)", f.Name, err)
		}

		parts[f.Name] = string(bytes)
	}

	return parts
}

func TestSlides(t *testing.T) {
	path := template(t,
		slide(titleShape("Tech and Data")),
		slide(titleShape("Reporting &amp; Insights")),
		slide(textShape(3, "Not a placeholder")),
	)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Unexpected error returned from Open (%v)", err)
	}

	mapped := d.Slides()

	if mapped["Tech & Data"] != "ppt/slides/slide1.xml" {
		t.Errorf("Incorrect slide for 'Tech & Data' - expected:%v, got:%v", "ppt/slides/slide1.xml", mapped["Tech & Data"])
	}

	if mapped["Reporting & Insights"] != "ppt/slides/slide2.xml" {
		t.Errorf("Incorrect slide for 'Reporting & Insights' - expected:%v, got:%v", "ppt/slides/slide2.xml", mapped["Reporting & Insights"])
	}

	if len(mapped) != 2 {
		t.Errorf("Incorrect slide count - expected:%v, got:%v", 2, len(mapped))
	}
}

func TestRender(t *testing.T) {
	path := template(t,
		slide(
			titleShape("Tech and Data"),
			textShape(3, "Your score"),
			textShape(4, "Recommendation 1"),
			lineShape(1000000, 2000000, 4000000, 0),
			circleShape(1000000, 1900000, 200000, 200000),
		),
	)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Unexpected error returned from Open (%v)", err)
	}

	content := map[string]Content{
		"Tech & Data": {
			Score: 2.0,
			Recommendations: []string{
				"Consolidate customer data",
				"Automate data cleansing",
				"Define data ownership",
				"Review integrations quarterly",
			},
		},
	}

	if err := d.Render(content); err != nil {
		t.Fatalf("Unexpected error returned from Render (%v)", err)
	}

	out := filepath.Join(t.TempDir(), "out.pptx")
	if err := d.Save(out); err != nil {
		t.Fatalf("Unexpected error returned from Save (%v)", err)
	}

	parts := reopen(t, out)
	rendered := parts["ppt/slides/slide1.xml"]

	if !strings.Contains(rendered, "<a:t>2.00/4.0</a:t>") {
		t.Errorf("Rendered slide missing score text:\n%s", rendered)
	}

	if !strings.Contains(rendered, "<a:t>1. Consolidate customer data</a:t>") {
		t.Errorf("Rendered slide missing first recommendation:\n%s", rendered)
	}

	if !strings.Contains(rendered, "<a:t>4. Review integrations quarterly</a:t>") {
		t.Errorf("Rendered slide missing last recommendation:\n%s", rendered)
	}

	if strings.Contains(rendered, "Recommendation 1") {
		t.Errorf("Rendered slide still contains placeholder text")
	}

	// marker centre at 2.0/4.0 along the line
	if !strings.Contains(rendered, `<a:off x="2900000" y="1900000"/>`) {
		t.Errorf("Marker circle not repositioned:\n%s", rendered)
	}
}

func TestRenderLeavesUnscoredSlides(t *testing.T) {
	original := slide(titleShape("People &amp; Operations"), textShape(3, "Your score"))

	path := template(t, original)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Unexpected error returned from Open (%v)", err)
	}

	if err := d.Render(map[string]Content{"Tech & Data": {Score: 3.0}}); err != nil {
		t.Fatalf("Unexpected error returned from Render (%v)", err)
	}

	out := filepath.Join(t.TempDir(), "out.pptx")
	if err := d.Save(out); err != nil {
		t.Fatalf("Unexpected error returned from Save (%v)", err)
	}

	if parts := reopen(t, out); parts["ppt/slides/slide1.xml"] != original {
		t.Errorf("Unscored slide was modified")
	}
}

func TestRenderWithoutGauge(t *testing.T) {
	path := template(t,
		slide(titleShape("Tech and Data"), textShape(3, "Your score")),
	)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Unexpected error returned from Open (%v)", err)
	}

	if err := d.Render(map[string]Content{"Tech & Data": {Score: 3.25}}); err != nil {
		t.Fatalf("Unexpected error returned from Render (%v)", err)
	}
}

func TestRenderEscapesText(t *testing.T) {
	path := template(t,
		slide(titleShape("Tech and Data"), textShape(4, "Recommendation 1")),
	)

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Unexpected error returned from Open (%v)", err)
	}

	content := map[string]Content{
		"Tech & Data": {
			Score:           1.0,
			Recommendations: []string{"Adopt test & learn cycles"},
		},
	}

	if err := d.Render(content); err != nil {
		t.Fatalf("Unexpected error returned from Render (%v)", err)
	}

	if rendered := string(d.parts["ppt/slides/slide1.xml"]); !strings.Contains(rendered, "<a:t>1. Adopt test &amp; learn cycles</a:t>") {
		t.Errorf("Recommendation text not escaped:\n%s", rendered)
	}
}

func TestOpenWithoutSlides(t *testing.T) {
	path := template(t)

	if _, err := Open(path); err == nil {
		t.Errorf("Expected error for template without slides, got %v", err)
	}
}
