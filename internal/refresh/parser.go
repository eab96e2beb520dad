package refresh

import (
	"errors"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/rcomplete/rindex-mcp/pkg/types"
)

// Each harvester output line is a JSON object with the format:
//
//	{
//	   "package": <single package name>,
//	   "exports": <array of exported object names>,
//	   "types": <array of completion-type codes>,
//	   "function_info": {per-function signature metadata}
//	}

const logExcerptLimit = 60

// ParseOutput splits the buffered harvester output into lines and decodes
// each non-empty line independently. Malformed or structurally invalid
// lines are logged and skipped; records are returned in line order.
func ParseOutput(output string) []types.PackageInformation {
	var records []types.PackageInformation
	lines := strings.Split(output, "\n")
	log.Debugf("received %d lines of response", len(lines))

	for _, line := range lines {
		if line == "" {
			continue
		}
		info, ok := parseLine([]byte(line))
		if !ok {
			continue
		}
		records = append(records, *info)
	}
	return records
}

// parseLine decodes one output line into a package record. Returns false
// when the line cannot produce a record at all; partial degradation
// (unreadable array elements, aborted function extraction) still yields a
// record carrying whatever was decoded.
func parseLine(line []byte) (*types.PackageInformation, bool) {
	pkgName, err := jsonparser.GetString(line, "package")
	if err != nil {
		logLineFailure(line, err)
		return nil, false
	}

	exportsJSON, err := requireField(line, "exports", jsonparser.Array)
	if err != nil {
		logLineFailure(line, err)
		return nil, false
	}
	typesJSON, err := requireField(line, "types", jsonparser.Array)
	if err != nil {
		logLineFailure(line, err)
		return nil, false
	}
	functionInfoJSON, err := requireField(line, "function_info", jsonparser.Object)
	if err != nil {
		logLineFailure(line, err)
		return nil, false
	}

	log.Debugf("adding entry for package: '%s'", pkgName)
	info := types.NewPackageInformation(pkgName)

	if info.Exports, err = fillStrings(exportsJSON); err != nil {
		log.Errorf("failed to read 'exports' array for package %q: %v", pkgName, err)
	}
	if info.Types, err = fillInts(typesJSON); err != nil {
		log.Errorf("failed to read 'types' array for package %q: %v", pkgName, err)
	}
	if !fillFunctionInfo(functionInfoJSON, pkgName, info.FunctionInfo) {
		log.Errorf("failed to read 'function_info' object for package %q", pkgName)
	}

	return &info, true
}

// requireField extracts a named field and checks its JSON kind.
func requireField(line []byte, key string, want jsonparser.ValueType) ([]byte, error) {
	value, dataType, _, err := jsonparser.Get(line, key)
	if err != nil {
		return nil, err
	}
	if dataType != want {
		return nil, errors.New("field '" + key + "': expected " + want.String() + ", got " + dataType.String())
	}
	return value, nil
}

// logLineFailure records a skipped line, quoting at most logExcerptLimit
// characters of it.
func logLineFailure(line []byte, err error) {
	excerpt := string(line)
	if len(excerpt) > logExcerptLimit {
		excerpt = excerpt[:logExcerptLimit] + "..."
	}
	log.Errorf("failed to parse response line: %v: '%s'", err, excerpt)
}

// fillStrings coerces a JSON array into a string slice. Elements of the
// wrong type are dropped and reported through the returned error; elements
// coerced before and after a bad one are kept.
func fillStrings(arrayJSON []byte) ([]string, error) {
	values := []string{}
	var badElement error
	_, err := jsonparser.ArrayEach(arrayJSON, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if dataType != jsonparser.String {
			badElement = errors.New("element is not a string")
			return
		}
		s, err := jsonparser.ParseString(value)
		if err != nil {
			badElement = err
			return
		}
		values = append(values, s)
	})
	if err != nil {
		return values, err
	}
	return values, badElement
}

// fillInts coerces a JSON array into an int slice with the same tolerance
// as fillStrings.
func fillInts(arrayJSON []byte) ([]int, error) {
	values := []int{}
	var badElement error
	_, err := jsonparser.ArrayEach(arrayJSON, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		if dataType != jsonparser.Number {
			badElement = errors.New("element is not an integer")
			return
		}
		n, err := jsonparser.ParseInt(value)
		if err != nil {
			badElement = err
			return
		}
		values = append(values, int(n))
	})
	if err != nil {
		return values, err
	}
	return values, badElement
}
