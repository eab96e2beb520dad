package refresh

import (
	"errors"

	"github.com/buger/jsonparser"

	"github.com/rcomplete/rindex-mcp/pkg/types"
)

// errExtractionAborted stops an ObjectEach walk when a function entry is
// missing its formal_info object. Functions decoded before the abort are
// kept; nothing after it is attempted.
var errExtractionAborted = errors.New("function info extraction aborted")

// readFlag reads a 0/1 or boolean field, falling back to def when the
// field is absent or unreadable.
func readFlag(data []byte, key string, def bool) bool {
	if n, err := jsonparser.GetInt(data, key); err == nil {
		return n != 0
	}
	if b, err := jsonparser.GetBoolean(data, key); err == nil {
		return b
	}
	return def
}

// fillFormalInfo decodes a formal_info object into the function's formal
// list, in document order. A formal whose value is not an object stops the
// walk; formals decoded before it are kept.
func fillFormalInfo(formalInfo []byte, fn *types.FunctionInformation) {
	err := jsonparser.ObjectEach(formalInfo, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		if dataType != jsonparser.Object {
			log.Errorf("formal %q of function %q: expected object, got %s",
				string(key), fn.Name, dataType)
			return errExtractionAborted
		}

		formal := types.NewFormalInformation(string(key))
		formal.IsUsed = readFlag(value, "is_used", false)
		formal.HasDefaultValue = readFlag(value, "has_default", true)
		formal.MissingnessHandled = readFlag(value, "missingness_handled", true)

		fn.AddFormal(formal)
		return nil
	})
	if err != nil && !errors.Is(err, errExtractionAborted) {
		log.Errorf("failed to walk formal_info for function %q: %v", fn.Name, err)
	}
}

// fillFunctionInfo decodes a function_info object into out, keyed by
// function name (later entries overwrite earlier ones of the same name).
// Returns false when extraction terminated early because a function entry
// had no formal_info object at all; entries decoded before the abort
// remain in out. A function whose entry or formal_info has the wrong type
// is skipped without aborting.
func fillFunctionInfo(functionInfo []byte, pkgName string, out map[string]types.FunctionInformation) bool {
	err := jsonparser.ObjectEach(functionInfo, func(key, value []byte, dataType jsonparser.ValueType, _ int) error {
		functionName := string(key)

		if dataType != jsonparser.Object {
			log.Errorf("function %q in package %q: expected object, got %s",
				functionName, pkgName, dataType)
			return nil // skip this function only
		}

		fn := types.NewFunctionInformation(functionName, pkgName)
		fn.PerformsNse = readFlag(value, "performs_nse", false)
		fn.IsPrimitive = false

		formalInfo, formalType, _, err := jsonparser.Get(value, "formal_info")
		if err != nil {
			log.Warningf("no formal information for function '%s'", functionName)
			return errExtractionAborted
		}
		if formalType != jsonparser.Object {
			log.Errorf("formal_info of function %q: expected object, got %s",
				functionName, formalType)
			return nil // skip this function only
		}

		fillFormalInfo(formalInfo, &fn)
		out[functionName] = fn
		return nil
	})

	if err == nil {
		return true
	}
	if errors.Is(err, errExtractionAborted) {
		return false
	}
	log.Errorf("failed to walk function_info for package %q: %v", pkgName, err)
	return false
}
