// Package deck renders the per-respondent presentation by rewriting a PPTX
// template: each category slide gets the respondent's score, the generated
// recommendations and the score marker repositioned along the gauge line.
//
// A .pptx file is a zip archive of OOXML parts; the renderer edits the
// slide parts in place and leaves every other part untouched.
package deck

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Content is what gets rendered onto one category slide.
type Content struct {
	Score           float64
	Recommendations []string
}

// Deck is a PPTX archive held in memory.
type Deck struct {
	order []string
	parts map[string][]byte
}

// Slide titles in the template do not all match the category names exactly.
var titles = map[string]string{
	"Tech and Data":                  "Tech & Data",
	"Campaigning & Assets":           "Campaigning & Assets",
	"Segmentation & Personalisation": "Segmentation & Personalisation",
	"Reporting & Insights":           "Reporting & Insights",
	"People & Operations":            "People & Operations",
}

var slidePart = regexp.MustCompile(`^ppt/slides/slide([0-9]+)\.xml$`)

// Open reads a PPTX template into memory.
func Open(path string) (*Deck, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open template (%v)", err)
	}

	defer r.Close()

	return read(&r.Reader)
}

func read(r *zip.Reader) (*Deck, error) {
	deck := Deck{
		order: []string{},
		parts: map[string][]byte{},
	}

	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("unable to read template part %s (%v)", f.Name, err)
		}

		bytes, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("unable to read template part %s (%v)", f.Name, err)
		}

		deck.order = append(deck.order, f.Name)
		deck.parts[f.Name] = bytes
	}

	if len(deck.slides()) == 0 {
		return nil, fmt.Errorf("template has no slides")
	}

	return &deck, nil
}

// Save writes the deck to a new PPTX file, creating the directory if
// required.
func (d *Deck) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer f.Close()

	w := zip.NewWriter(f)
	for _, name := range d.order {
		part, err := w.Create(name)
		if err != nil {
			return fmt.Errorf("unable to write part %s (%v)", name, err)
		}

		if _, err := part.Write(d.parts[name]); err != nil {
			return fmt.Errorf("unable to write part %s (%v)", name, err)
		}
	}

	return w.Close()
}

// Render rewrites each category slide that has content. Slides without a
// matching category (and categories without a matching slide) are left as
// they are.
func (d *Deck) Render(content map[string]Content) error {
	mapped := d.Slides()

	for category, c := range content {
		name, ok := mapped[category]
		if !ok {
			continue
		}

		slide, err := render(string(d.parts[name]), c)
		if err != nil {
			return fmt.Errorf("error rendering slide for '%s' (%v)", category, err)
		}

		d.parts[name] = []byte(slide)
	}

	return nil
}

// Slides maps category names to the slide parts whose title placeholder
// matches.
func (d *Deck) Slides() map[string]string {
	mapped := map[string]string{}

	for _, name := range d.slides() {
		for _, sh := range shapes(string(d.parts[name])) {
			if !sh.placeholder {
				continue
			}

			if category, ok := titles[strings.TrimSpace(sh.text)]; ok {
				if _, ok := mapped[category]; !ok {
					mapped[category] = name
				}
				break
			}
		}
	}

	return mapped
}

func (d *Deck) slides() []string {
	list := []string{}
	for _, name := range d.order {
		if slidePart.MatchString(name) {
			list = append(list, name)
		}
	}

	sort.Slice(list, func(i, j int) bool {
		a, _ := strconv.Atoi(slidePart.FindStringSubmatch(list[i])[1])
		b, _ := strconv.Atoi(slidePart.FindStringSubmatch(list[j])[1])
		return a < b
	})

	return list
}
