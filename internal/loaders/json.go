package loaders

import (
	"encoding/json"
	"os"
	"sort"
	"strconv"

	"github.com/ohler55/ojg/oj"

	"sqlcli/internal/datatable"
)

// LoadJSON reads path as a top-level JSON array of objects and returns
// a Table whose column set is the union of keys across the array
// (spec §4.2: "missing keys produce Null. Non-scalar values ... are
// stringified"), parsed with ojg the way the teacher's fileloader
// parses JSON documents.
func LoadJSON(path string) (*datatable.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadJSONBytes(tableNameFromPath(path), data)
}

// LoadJSONBytes is LoadJSON's parsing core, split out so the HTTP data
// source (SPEC_FULL.md §B) can feed it a response body directly instead
// of a file path.
func LoadJSONBytes(name string, data []byte) (*datatable.Table, error) {
	parsed, err := oj.Parse(data)
	if err != nil {
		return nil, &ParseError{Line: 0, Reason: err.Error()}
	}

	arr, ok := parsed.([]interface{})
	if !ok {
		return nil, &ParseError{Line: 0, Reason: "top-level JSON value is not an array"}
	}

	header := unionKeys(arr)
	rawRows := make([][]string, len(arr))
	for i, elem := range arr {
		obj, ok := elem.(map[string]interface{})
		if !ok {
			return nil, &ParseError{Line: i + 1, Reason: "array element is not an object"}
		}
		row := make([]string, len(header))
		for c, key := range header {
			row[c] = stringifyJSONValue(obj[key])
		}
		rawRows[i] = row
	}

	return buildTable(name, header, rawRows)
}

// unionKeys collects every object key across the array, ordered by the
// first object that contains each key; keys first seen in the same
// object are ordered alphabetically.
func unionKeys(arr []interface{}) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, elem := range arr {
		obj, ok := elem.(map[string]interface{})
		if !ok {
			continue
		}
		objKeys := make([]string, 0, len(obj))
		for k := range obj {
			objKeys = append(objKeys, k)
		}
		sort.Strings(objKeys)
		for _, k := range objKeys {
			if _, ok := seen[k]; !ok {
				seen[k] = struct{}{}
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// stringifyJSONValue renders a parsed JSON leaf to its CSV-equivalent
// string form; missing keys and explicit null both become "" (spec
// §4.2: "missing keys produce Null"), and nested arrays/objects are
// stringified rather than flattened.
func stringifyJSONValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
