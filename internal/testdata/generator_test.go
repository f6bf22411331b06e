package testdata

import (
	"encoding/csv"
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const templateXML = `<?xml version="1.0" encoding="UTF-8"?>
<record>
  <name>PLACEHOLDER</name>
  <address>PLACEHOLDER</address>
  <visit>
    <date>2000-01-01</date>
    <time>00:00</time>
  </visit>
  <notes>keep this text</notes>
</record>`

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "record.xml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerateProducesRequestedVariants(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	variants, err := Generate(GeneratorConfig{
		Input:  writeTemplate(t, templateXML),
		OutDir: outDir,
		Count:  5,
		Seed:   42,
	})
	require.NoError(t, err)
	require.Len(t, variants, 5)

	for i, v := range variants {
		assert.Equal(t, i+1, v.ID)

		data, err := os.ReadFile(filepath.Join(outDir, v.Filename))
		require.NoError(t, err)

		// Output must stay well-formed and carry the generated values.
		var doc struct {
			Name    string `xml:"name"`
			Address string `xml:"address"`
			Visit   struct {
				Date string `xml:"date"`
				Time string `xml:"time"`
			} `xml:"visit"`
			Notes string `xml:"notes"`
		}
		require.NoError(t, xml.Unmarshal(data, &doc))
		assert.Equal(t, v.Values["name"], doc.Name)
		assert.Equal(t, v.Values["address"], doc.Address)
		assert.Equal(t, v.Values["date"], doc.Visit.Date)
		assert.Equal(t, v.Values["time"], doc.Visit.Time)
		assert.Equal(t, "keep this text", doc.Notes)
		assert.NotContains(t, string(data), "PLACEHOLDER")
	}
}

func TestGenerateVariantsAreUnique(t *testing.T) {
	variants, err := Generate(GeneratorConfig{
		Input:  writeTemplate(t, templateXML),
		OutDir: filepath.Join(t.TempDir(), "out"),
		Count:  20,
		Seed:   7,
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, v := range variants {
		key := strings.Join([]string{
			v.Values["name"], v.Values["address"], v.Values["date"], v.Values["time"],
		}, "\x00")
		assert.False(t, seen[key], "duplicate value tuple %q", key)
		seen[key] = true
	}
}

func TestGenerateManifest(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	variants, err := Generate(GeneratorConfig{
		Input:  writeTemplate(t, templateXML),
		OutDir: outDir,
		Count:  3,
		Seed:   1,
	})
	require.NoError(t, err)

	f, err := os.Open(filepath.Join(outDir, "manifest.csv"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4) // header + 3 variants

	assert.Equal(t, []string{"variant_id", "xml_filename", "name", "address", "date", "time", "xml_content"}, rows[0])
	for i, v := range variants {
		row := rows[i+1]
		assert.Equal(t, v.Filename, row[1])
		assert.Equal(t, v.Values["name"], row[2])
		assert.Equal(t, v.Content, row[6])
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	input := writeTemplate(t, templateXML)

	a, err := Generate(GeneratorConfig{Input: input, OutDir: filepath.Join(t.TempDir(), "a"), Count: 4, Seed: 99})
	require.NoError(t, err)
	b, err := Generate(GeneratorConfig{Input: input, OutDir: filepath.Join(t.TempDir(), "b"), Count: 4, Seed: 99})
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Values, b[i].Values)
	}
}

func TestGenerateCustomTagMap(t *testing.T) {
	const custom = `<?xml version="1.0"?>
<patient>
  <fullName>X</fullName>
  <homeAddress>Y</homeAddress>
</patient>`

	variants, err := Generate(GeneratorConfig{
		Input:  writeTemplate(t, custom),
		OutDir: filepath.Join(t.TempDir(), "out"),
		Count:  2,
		Seed:   3,
		TagMap: map[string]string{"name": "fullName", "address": "homeAddress"},
	})
	require.NoError(t, err)
	require.Len(t, variants, 2)

	for _, v := range variants {
		var doc struct {
			FullName    string `xml:"fullName"`
			HomeAddress string `xml:"homeAddress"`
		}
		require.NoError(t, xml.Unmarshal([]byte(v.Content), &doc))
		assert.Equal(t, v.Values["name"], doc.FullName)
		assert.Equal(t, v.Values["address"], doc.HomeAddress)
	}
}

func TestGenerateRejectsMalformedTemplate(t *testing.T) {
	_, err := Generate(GeneratorConfig{
		Input:  writeTemplate(t, "<record><open>"),
		OutDir: filepath.Join(t.TempDir(), "out"),
		Count:  1,
	})
	require.Error(t, err)
}

func TestGenerateMissingInput(t *testing.T) {
	_, err := Generate(GeneratorConfig{
		Input:  filepath.Join(t.TempDir(), "nope.xml"),
		OutDir: filepath.Join(t.TempDir(), "out"),
		Count:  1,
	})
	require.Error(t, err)
}

func TestApplyValuesEmitsSingleDeclaration(t *testing.T) {
	out, err := applyValues([]byte(templateXML), defaultTagMap, map[string]string{
		"name": "Jane Roe", "address": "1 Main St", "date": "2025-06-01", "time": "09:30",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(string(out), "<?xml"))
	var doc struct {
		Name string `xml:"name"`
	}
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Equal(t, "Jane Roe", doc.Name)
}
