package renom

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
)

var (
	ErrParse        = errors.New("parse error")
	ErrInvalidEntry = errors.New("invalid ini entry")
)

type iniLineKind int

const (
	iniOther iniLineKind = iota
	iniSection
	iniEntry
)

type iniLine struct {
	kind    iniLineKind
	text    string
	eol     string
	section string
	key     string
	value   string
}

// iniDocument edits INI text line by line. Values are taken literally: no
// continuation lines, escapes, quotes or inline comments. Lines that are not
// edited are written back byte for byte, in their original order.
type iniDocument struct {
	lines []iniLine
	eol   string
}

func parseIni(content []byte) (*iniDocument, error) {
	doc := &iniDocument{eol: "\n"}
	section := ""
	rest := string(content)
	for n := 1; rest != ""; n++ {
		text, eol := rest, ""
		if i := strings.IndexByte(rest, '\n'); i >= 0 {
			text, rest, eol = rest[:i], rest[i+1:], "\n"
		} else {
			rest = ""
		}
		if strings.HasSuffix(text, "\r") {
			text, eol = text[:len(text)-1], "\r"+eol
		}
		if n == 1 && eol == "\r\n" {
			doc.eol = eol
		}

		l := iniLine{text: text, eol: eol}
		trimmed := strings.TrimSpace(text)
		switch {
		case trimmed == "" || trimmed[0] == ';' || trimmed[0] == '#':
		case trimmed[0] == '[':
			if !strings.HasSuffix(trimmed, "]") {
				return nil, fmt.Errorf("%w: line %d: unterminated section header", ErrParse, n)
			}
			section = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
			l.kind = iniSection
		default:
			k, v, ok := strings.Cut(trimmed, "=")
			if !ok {
				return nil, fmt.Errorf("%w: line %d: expected key=value", ErrParse, n)
			}
			l.kind, l.key, l.value = iniEntry, strings.TrimSpace(k), strings.TrimSpace(v)
		}
		l.section = section
		doc.lines = append(doc.lines, l)
	}
	return doc, nil
}

// Set leaves exactly one value for key in section, at the position of the
// key's first entry. The section is created when missing.
func (d *iniDocument) Set(section, key, value string) error {
	if err := checkEntry(section, key, value); err != nil {
		return err
	}
	idx := d.entries(section, key)
	if len(idx) == 0 {
		return d.Append(section, key, value)
	}
	d.lines[idx[0]] = d.entryLine(section, key, value, d.lines[idx[0]].eol)
	for i := len(idx) - 1; i > 0; i-- {
		d.lines = slices.Delete(d.lines, idx[i], idx[i]+1)
	}
	return nil
}

// Append adds another entry for key after the last entry of section, without
// touching existing ones.
func (d *iniDocument) Append(section, key, value string) error {
	if err := checkEntry(section, key, value); err != nil {
		return err
	}
	at, ok := d.insertionPoint(section)
	if !ok {
		at = d.addSection(section)
	}
	d.insert(at, d.entryLine(section, key, value, d.eol))
	return nil
}

func (d *iniDocument) Values(section, key string) []string {
	var values []string
	for _, i := range d.entries(section, key) {
		values = append(values, d.lines[i].value)
	}
	return values
}

// Keys lists the entry keys of section in file order, repeats included.
func (d *iniDocument) Keys(section string) []string {
	var keys []string
	for _, l := range d.lines {
		if l.kind == iniEntry && l.section == section {
			keys = append(keys, l.key)
		}
	}
	return keys
}

func (d *iniDocument) Bytes() []byte {
	var b strings.Builder
	for _, l := range d.lines {
		b.WriteString(l.text)
		b.WriteString(l.eol)
	}
	return []byte(b.String())
}

func (d *iniDocument) entries(section, key string) []int {
	var idx []int
	for i, l := range d.lines {
		if l.kind == iniEntry && l.section == section && l.key == key {
			idx = append(idx, i)
		}
	}
	return idx
}

// insertionPoint returns the index right after the last entry in the last
// block of section, or right after its header when the block is empty.
func (d *iniDocument) insertionPoint(section string) (int, bool) {
	at, found := 0, section == ""
	for i, l := range d.lines {
		switch {
		case l.kind == iniSection && l.section == section:
			at, found = i+1, true
		case l.kind == iniEntry && l.section == section:
			at = i + 1
		}
	}
	return at, found
}

func (d *iniDocument) addSection(section string) int {
	if n := len(d.lines); n > 0 && strings.TrimSpace(d.lines[n-1].text) != "" {
		d.insert(n, iniLine{eol: d.eol})
	}
	d.insert(len(d.lines), iniLine{kind: iniSection, text: "[" + section + "]", eol: d.eol, section: section})
	return len(d.lines)
}

func (d *iniDocument) insert(at int, l iniLine) {
	if at > 0 && d.lines[at-1].eol == "" {
		d.lines[at-1].eol = d.eol
	}
	d.lines = slices.Insert(d.lines, at, l)
}

func (d *iniDocument) entryLine(section, key, value, eol string) iniLine {
	return iniLine{kind: iniEntry, text: key + "=" + value, eol: eol, section: section, key: key, value: value}
}

func checkEntry(section, key, value string) error {
	switch {
	case key == "" || strings.TrimSpace(key) != key || strings.Contains(key, "="):
		return fmt.Errorf("%w: key %q", ErrInvalidEntry, key)
	case strings.ContainsAny(key[:1], "[;#"):
		return fmt.Errorf("%w: key %q", ErrInvalidEntry, key)
	case strings.ContainsAny(section, "]\r\n") || strings.TrimSpace(section) != section:
		return fmt.Errorf("%w: section %q", ErrInvalidEntry, section)
	case strings.ContainsAny(key+value, "\r\n") || strings.TrimSpace(value) != value:
		return fmt.Errorf("%w: value %q", ErrInvalidEntry, value)
	}
	return nil
}

func editIni(path string, edit func(doc *iniDocument) error) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	doc, err := parseIni(content)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := edit(doc); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return os.WriteFile(path, doc.Bytes(), filePerm(path))
}
