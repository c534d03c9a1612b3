// Package musicxml reads MusicXML documents as a stream of element events
// and writes score models back as MusicXML.
package musicxml

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

type (
	// Element is one element event. Start events carry the attributes; end
	// events carry the attributes again and the character data directly
	// inside the element, trimmed of surrounding white space.
	Element struct {
		Name string
		Attr map[string]string
		Text string
		Line int
	}

	// Handler receives the element events of a document in document order.
	// Returning an error stops the parsing and Parse returns that error.
	Handler interface {
		StartElement(e *Element) error
		EndElement(e *Element) error
	}
)

// Parse reads a MusicXML document from r and sends its element events to h.
// Documents in any encoding known to golang.org/x/net/html/charset are
// accepted.
func Parse(r io.Reader, h Handler) error {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel
	dec.Strict = true
	var stack []*Element
	var text []*strings.Builder
	for {
		line, _ := dec.InputPos()
		token, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("xml error near line %d: %v", line, err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			e := &Element{Name: t.Name.Local, Line: line}
			if len(t.Attr) > 0 {
				e.Attr = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					e.Attr[a.Name.Local] = a.Value
				}
			}
			stack = append(stack, e)
			text = append(text, new(strings.Builder))
			if err := h.StartElement(e); err != nil {
				return err
			}
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return fmt.Errorf("xml error near line %d: unexpected end element %v", line, t.Name.Local)
			}
			e := stack[len(stack)-1]
			e.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
			if err := h.EndElement(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseFile parses a .xml/.musicxml file or a compressed .mxl container.
func ParseFile(filename string, h Handler) error {
	if strings.EqualFold(path.Ext(filename), ".mxl") {
		data, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("could not read file %v: %v", filename, err)
		}
		rc, err := OpenMXL(bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return fmt.Errorf("could not open %v: %v", filename, err)
		}
		defer rc.Close()
		return Parse(rc, h)
	}
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("could not open file %v: %v", filename, err)
	}
	defer f.Close()
	return Parse(f, h)
}

type container struct {
	Rootfiles []struct {
		FullPath  string `xml:"full-path,attr"`
		MediaType string `xml:"media-type,attr"`
	} `xml:"rootfiles>rootfile"`
}

// OpenMXL opens the score document of a compressed MusicXML container: the
// first rootfile listed in META-INF/container.xml, or the first .xml file
// outside META-INF if there is no container file.
func OpenMXL(r io.ReaderAt, size int64) (io.ReadCloser, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("not a zip archive: %v", err)
	}
	name := ""
	for _, f := range zr.File {
		if f.Name != "META-INF/container.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		var c container
		err = xml.NewDecoder(rc).Decode(&c)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("invalid META-INF/container.xml: %v", err)
		}
		for _, rf := range c.Rootfiles {
			if rf.MediaType == "" || rf.MediaType == "application/vnd.recordare.musicxml+xml" {
				name = rf.FullPath
				break
			}
		}
	}
	for _, f := range zr.File {
		if name == "" && !strings.HasPrefix(f.Name, "META-INF/") && strings.HasSuffix(f.Name, ".xml") {
			name = f.Name
		}
		if f.Name == name {
			return f.Open()
		}
	}
	return nil, fmt.Errorf("no score document in the archive")
}

// AttrInt returns the named attribute as an integer, or def if the element
// does not have it.
func (e *Element) AttrInt(name string, def int) (int, error) {
	s, ok := e.Attr[name]
	if !ok || strings.TrimSpace(s) == "" {
		return def, nil
	}
	return parseInt(s)
}

// AttrFloat returns the named attribute as a decimal, or def if the element
// does not have it.
func (e *Element) AttrFloat(name string, def float64) (float64, error) {
	s, ok := e.Attr[name]
	if !ok || strings.TrimSpace(s) == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

// TextInt returns the text of the element as an integer.
func (e *Element) TextInt() (int, error) {
	return parseInt(e.Text)
}

// parseInt accepts MusicXML decimals with an integral value, e.g. "-7.00".
func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return int(f), nil
}
