package ffmpeg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"mediabridge/internal/common/fsutil"
)

const (
	fontconfigEnv = "FONTCONFIG_PATH"
	fontConfDir   = ".mediabridge"
	fontConfName  = "fonts.conf"
)

type fontconfigDoc struct {
	XMLName xml.Name    `xml:"fontconfig"`
	Dirs    []string    `xml:"dir"`
	Matches []fontMatch `xml:"match"`
}

type fontMatch struct {
	Target string   `xml:"target,attr"`
	Test   fontTest `xml:"test"`
	Edit   fontEdit `xml:"edit"`
}

type fontTest struct {
	Qual   string `xml:"qual,attr"`
	Name   string `xml:"name,attr"`
	String string `xml:"string"`
}

type fontEdit struct {
	Name    string `xml:"name,attr"`
	Mode    string `xml:"mode,attr"`
	Binding string `xml:"binding,attr"`
	String  string `xml:"string"`
}

// renderFontconfig builds a fonts.conf that scans fontDir and aliases each
// mapped family name. Mappings with a blank side are skipped. It returns the
// document and the number of mappings used.
func renderFontconfig(fontDir string, mapping map[string]string) ([]byte, int) {
	doc := fontconfigDoc{Dirs: []string{".", fontDir}}
	for _, from := range slices.Sorted(maps.Keys(mapping)) {
		to := mapping[from]
		if strings.TrimSpace(from) == "" || strings.TrimSpace(to) == "" {
			continue
		}
		doc.Matches = append(doc.Matches, fontMatch{
			Target: "pattern",
			Test:   fontTest{Qual: "any", Name: "family", String: from},
			Edit:   fontEdit{Name: "family", Mode: "assign", Binding: "same", String: to},
		})
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<!DOCTYPE fontconfig SYSTEM \"fonts.dtd\">\n")
	body, _ := xml.MarshalIndent(doc, "", "    ")
	buf.Write(body)
	buf.WriteByte('\n')
	return buf.Bytes(), len(doc.Matches)
}

// SetFontDirectory writes <cacheDir>/.mediabridge/fonts.conf registering fontDir
// and the given family name mappings, then points fontconfig at it.
func (f *FFmpeg) SetFontDirectory(cacheDir, fontDir string, mapping map[string]string) error {
	cacheDir, err := fsutil.ExpandHome(cacheDir)
	if err != nil {
		return err
	}
	fontDir, err = fsutil.ExpandHome(fontDir)
	if err != nil {
		return err
	}
	if strings.TrimSpace(cacheDir) == "" {
		cacheDir = os.TempDir()
	}
	if !fsutil.PathExists(fontDir) {
		// fontconfig skips missing directories, so only warn
		f.log.Warn().Str("font_dir", fontDir).Msg("font directory does not exist")
	}
	confDir := filepath.Join(cacheDir, fontConfDir)
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		return fmt.Errorf("create font conf directory: %w", err)
	}
	data, n := renderFontconfig(fontDir, mapping)
	if err := fsutil.WriteFileAtomic(filepath.Join(confDir, fontConfName), data, 0o644); err != nil {
		return fmt.Errorf("write font configuration: %w", err)
	}
	f.log.Debug().Int("mappings", n).Str("path", confDir).Msg("saved font configuration")
	if err := f.SetFontconfigConfigurationPath(confDir); err != nil {
		return err
	}
	f.mu.Lock()
	f.fontDir = fontDir
	f.mu.Unlock()
	f.log.Info().Str("font_dir", fontDir).Msg("font directory registered")
	return nil
}

// SetFontconfigConfigurationPath overrides the directory fontconfig reads
// fonts.conf from. Engine jobs started afterwards inherit it.
func (f *FFmpeg) SetFontconfigConfigurationPath(path string) error {
	if err := os.Setenv(fontconfigEnv, path); err != nil {
		return fmt.Errorf("set %s: %w", fontconfigEnv, err)
	}
	return nil
}
