package formats

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"classmetrics/internal/core/errors"
	"classmetrics/internal/engine/ast"
	"classmetrics/internal/engine/record"
)

func sampleClasses() []*record.ClassRecord {
	shop := record.NewClass("src/Shop.java", "com.acme.Shop", record.TypeClass, ast.ModPublic, 6)
	shop.WMC, shop.CBO, shop.LCOM, shop.FanIn = 7, 2, 1, 3
	count := record.NewMethod("count/1[int]", "com.acme.Shop.count/1[int]", false, ast.ModPublic|ast.ModStatic, 9)
	count.WMC = 3
	count.Invocations = []string{"com.acme.Store.size/0"}
	count.VariablesUsage = map[string]int{"total": 2, "limit": 1}
	count.FieldUsage = map[string]int{"items": 4}
	shop.AddMethod(count)

	store := record.NewClass("src/Store.java", "com.acme.Store", record.TypeInterface, ast.ModPublic, 3)
	store.WMC, store.CBO, store.LCOM = 1, 5, 0
	return []*record.ClassRecord{shop, store}
}

func readCSV(t *testing.T, data string) [][]string {
	t.Helper()
	rows, err := csv.NewReader(strings.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func TestWriteClassCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteClassCSV(&buf, sampleClasses()))

	rows := readCSV(t, buf.String())
	require.Len(t, rows, 3)
	header := rows[0]
	assert.Len(t, rows[1], len(header))
	assert.Equal(t, "com.acme.Shop", rows[1][column(header, "class")])
	assert.Equal(t, "7", rows[1][column(header, "wmc")])
	assert.Equal(t, "3", rows[1][column(header, "fanin")])
	assert.Equal(t, "public", rows[1][column(header, "modifiers")])
	assert.Equal(t, "interface", rows[2][column(header, "type")])
}

func TestWriteMethodCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMethodCSV(&buf, sampleClasses()))

	rows := readCSV(t, buf.String())
	require.Len(t, rows, 2)
	header := rows[0]
	assert.Len(t, rows[1], len(header))
	assert.Equal(t, "count/1[int]", rows[1][column(header, "method")])
	assert.Equal(t, "1", rows[1][column(header, "methodsInvokedQty")])
	assert.Equal(t, "public static", rows[1][column(header, "modifiers")])
	assert.Equal(t, "false", rows[1][column(header, "hasJavaDoc")])
}

func TestWriteUsageCSVs(t *testing.T) {
	var vars, fields bytes.Buffer
	require.NoError(t, WriteVariableCSV(&vars, sampleClasses()))
	require.NoError(t, WriteFieldCSV(&fields, sampleClasses()))

	varRows := readCSV(t, vars.String())
	require.Len(t, varRows, 3)
	assert.Equal(t, []string{"src/Shop.java", "com.acme.Shop", "count/1[int]", "limit", "1"}, varRows[1])
	assert.Equal(t, []string{"src/Shop.java", "com.acme.Shop", "count/1[int]", "total", "2"}, varRows[2])

	fieldRows := readCSV(t, fields.String())
	require.Len(t, fieldRows, 2)
	assert.Equal(t, "items", fieldRows[1][3])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	run := RunInfo{ID: "run-1", StartedAt: time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC), Duration: "1s", Files: 3}
	errs := []record.FileError{{Path: "src/Broken.java", Err: errors.New(errors.CodeParse, "source has syntax errors")}}
	lookup := func(c *record.ClassRecord) map[string][]string {
		if c.ClassName == "com.acme.Shop" {
			return map[string][]string{"com.acme.Store": {"DATA_ABSTRACTION"}}
		}
		return nil
	}
	require.NoError(t, WriteJSON(&buf, run, sampleClasses(), errs, lookup))

	var doc struct {
		Run struct {
			ID    string `json:"id"`
			Files int    `json:"files"`
		} `json:"run"`
		Classes []struct {
			Class     string   `json:"class"`
			WMC       int      `json:"wmc"`
			Modifiers []string `json:"modifiers"`
			Methods   []struct {
				Method         string         `json:"method"`
				VariablesUsage map[string]int `json:"variables_usage"`
			} `json:"methods"`
			Coupling []struct {
				Class      string   `json:"class"`
				Categories []string `json:"categories"`
			} `json:"coupling"`
		} `json:"classes"`
		Errors []struct {
			Path  string `json:"path"`
			Error string `json:"error"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "run-1", doc.Run.ID)
	assert.Equal(t, 3, doc.Run.Files)
	require.Len(t, doc.Classes, 2)
	assert.Equal(t, "com.acme.Shop", doc.Classes[0].Class)
	assert.Equal(t, 7, doc.Classes[0].WMC)
	assert.Equal(t, []string{"public"}, doc.Classes[0].Modifiers)
	require.Len(t, doc.Classes[0].Methods, 1)
	assert.Equal(t, 2, doc.Classes[0].Methods[0].VariablesUsage["total"])
	require.Len(t, doc.Classes[0].Coupling, 1)
	assert.Equal(t, "com.acme.Store", doc.Classes[0].Coupling[0].Class)
	assert.Empty(t, doc.Classes[1].Coupling)
	require.Len(t, doc.Errors, 1)
	assert.Contains(t, doc.Errors[0].Error, "PARSE_ERROR")
}

func TestGenerateHotspots(t *testing.T) {
	errs := []record.FileError{{Path: "src/Broken.java", Err: errors.New(errors.CodeParse, "bad")}}
	md := GenerateHotspots(sampleClasses(), errs, HotspotOptions{Project: "shop", Top: 1})

	assert.Contains(t, md, "project: shop")
	assert.Contains(t, md, "| Classes | 2 |")
	assert.Contains(t, md, "| Methods | 1 |")
	assert.Contains(t, md, "## Complexity (WMC)\n| Class | File | Value | WMC | CBO | LCOM |\n| --- | --- | --- | --- | --- | --- |\n| `com.acme.Shop` |")
	assert.Contains(t, md, "## Coupling (CBO)\n| Class | File | Value | WMC | CBO | LCOM |\n| --- | --- | --- | --- | --- | --- |\n| `com.acme.Store` |")
	assert.Contains(t, md, "- src/Broken.java:")
}

func TestGenerateHotspotsEmpty(t *testing.T) {
	md := GenerateHotspots(nil, nil, HotspotOptions{})
	assert.Contains(t, md, "project: default")
	assert.Contains(t, md, "No classes analysed.")
	assert.NotContains(t, md, "## File Errors")
}
