package testdata

import (
	"bytes"
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/pkg/errors"
)

// GeneratorConfig drives test-data variant generation: N copies of a template
// XML with selected leaf tags replaced by unique randomized values, plus a
// CSV manifest describing each variant.
type GeneratorConfig struct {
	Input       string
	OutDir      string
	Count       int
	ManifestCSV string // defaults to <OutDir>/manifest.csv

	// Logical keys (name, address, date, time) to tag names, matched
	// case-insensitively anywhere in the tree. Empty means the defaults.
	TagMap map[string]string

	VaryFormats bool
	Seed        int64
}

var defaultTagMap = map[string]string{
	"name":    "name",
	"address": "address",
	"date":    "date",
	"time":    "time",
}

var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01-02-2006",
	"02 Jan 2006",
	"January 02, 2006",
	"20060102",
}

var timeFormats = []string{
	"15:04",
	"15:04:05",
	"03:04 PM",
}

// Variant is one generated record, mirrored into the manifest.
type Variant struct {
	ID       int
	Filename string
	Values   map[string]string
	Content  string
}

// Generate produces the variants and the manifest. Uniqueness is enforced on
// the tuple of generated values; generation stops early with an error if the
// template has too little variability for the requested count.
func Generate(cfg GeneratorConfig) ([]Variant, error) {
	template, err := os.ReadFile(cfg.Input)
	if err != nil {
		return nil, errors.Wrap(err, "read template xml")
	}
	if err := validateXML(template); err != nil {
		return nil, errors.Wrap(err, "parse template xml")
	}

	if err := os.MkdirAll(cfg.OutDir, 0755); err != nil {
		return nil, errors.Wrap(err, "create output dir")
	}

	tagMap := cfg.TagMap
	if len(tagMap) == 0 {
		tagMap = defaultTagMap
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(uint64(seed))
	rng := rand.New(rand.NewSource(seed))

	manifestPath := cfg.ManifestCSV
	if manifestPath == "" {
		manifestPath = filepath.Join(cfg.OutDir, "manifest.csv")
	}
	mf, err := os.Create(manifestPath)
	if err != nil {
		return nil, errors.Wrap(err, "create manifest")
	}
	defer mf.Close()

	w := csv.NewWriter(mf)
	defer w.Flush()
	if err := w.Write([]string{"variant_id", "xml_filename", "name", "address", "date", "time", "xml_content"}); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(cfg.Input), filepath.Ext(cfg.Input))
	seen := map[string]bool{}

	var variants []Variant
	attempts := 0
	maxAttempts := cfg.Count * 20

	for len(variants) < cfg.Count && attempts < maxAttempts {
		attempts++

		values := generateValues(faker, rng, cfg.VaryFormats)

		var keyParts []string
		for _, k := range []string{"name", "address", "date", "time"} {
			if _, ok := tagMap[k]; ok {
				keyParts = append(keyParts, values[k])
			}
		}
		tupleKey := strings.Join(keyParts, "\x00")
		if seen[tupleKey] {
			continue
		}
		seen[tupleKey] = true

		content, err := applyValues(template, tagMap, values)
		if err != nil {
			return nil, err
		}

		id := len(variants) + 1
		filename := fmt.Sprintf("%s_variant_%03d.xml", base, id)
		if err := os.WriteFile(filepath.Join(cfg.OutDir, filename), content, 0644); err != nil {
			return nil, errors.Wrap(err, "write variant")
		}

		v := Variant{ID: id, Filename: filename, Values: values, Content: string(content)}
		variants = append(variants, v)

		if err := w.Write([]string{
			strconv.Itoa(id), filename,
			values["name"], values["address"], values["date"], values["time"],
			v.Content,
		}); err != nil {
			return nil, err
		}
	}

	if len(variants) < cfg.Count {
		return variants, errors.Errorf(
			"stopped after %d of %d variants: uniqueness exhausted", len(variants), cfg.Count)
	}
	return variants, nil
}

func generateValues(faker *gofakeit.Faker, rng *rand.Rand, vary bool) map[string]string {
	addr := faker.Address()

	values := map[string]string{
		"name":    faker.Name(),
		"address": fmt.Sprintf("%s, %s %s %s", addr.Street, addr.City, addr.State, addr.Zip),
	}

	// Random instant within the last decade
	span := int64(10 * 365 * 24 * time.Hour / time.Second)
	dt := time.Now().Add(-time.Duration(rng.Int63n(span)) * time.Second)

	dateFmt, timeFmt := dateFormats[0], timeFormats[0]
	if vary {
		dateFmt = dateFormats[rng.Intn(len(dateFormats))]
		timeFmt = timeFormats[rng.Intn(len(timeFormats))]
	}
	values["date"] = dt.Format(dateFmt)
	values["time"] = dt.Format(timeFmt)

	return values
}

// applyValues rewrites the template token stream, replacing the character
// data of every leaf element whose local name matches a mapped tag.
// Namespace prefixes are ignored, matching is case-insensitive.
func applyValues(template []byte, tagMap map[string]string, values map[string]string) ([]byte, error) {
	// tag name (lowered) -> replacement value
	replace := map[string]string{}
	for key, tag := range tagMap {
		if v, ok := values[key]; ok {
			replace[strings.ToLower(tag)] = v
		}
	}

	dec := xml.NewDecoder(bytes.NewReader(template))
	var out bytes.Buffer
	out.WriteString(xml.Header)
	enc := xml.NewEncoder(&out)

	var replacing []bool // per-depth: is the current element being replaced
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "tokenize template")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			val, hit := replace[strings.ToLower(t.Name.Local)]
			replacing = append(replacing, hit)
			if err := enc.EncodeToken(t); err != nil {
				return nil, err
			}
			if hit {
				if err := enc.EncodeToken(xml.CharData(val)); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if len(replacing) > 0 {
				replacing = replacing[:len(replacing)-1]
			}
			if err := enc.EncodeToken(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			// Original text of a replaced element is dropped.
			if len(replacing) > 0 && replacing[len(replacing)-1] {
				continue
			}
			if err := enc.EncodeToken(t); err != nil {
				return nil, err
			}
		case xml.ProcInst:
			// The declaration is re-emitted via xml.Header above.
		default:
			if err := enc.EncodeToken(tok); err != nil {
				return nil, err
			}
		}
	}

	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func validateXML(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		_, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
