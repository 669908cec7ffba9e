package assets

import (
	"errors"
	"fmt"
	"strings"
)

// Well-known asset names.
const (
	DefaultStyleName = "mobile"
	TypesetterName   = "mathjax"
)

// Sentinel errors for asset operations.
var (
	ErrStyleNotFound    = errors.New("style not found")
	ErrScriptNotFound   = errors.New("script not found")
	ErrInvalidAssetName = errors.New("invalid asset name")
	ErrInvalidBasePath  = errors.New("invalid base path")
	ErrAssetRead        = errors.New("failed to read asset")
	ErrPathTraversal    = errors.New("path traversal detected")
)

// AssetLoader loads the stylesheet and scripts inlined into a render document.
// Names carry no extension. A missing asset yields ErrStyleNotFound or
// ErrScriptNotFound; a malformed name yields ErrInvalidAssetName.
type AssetLoader interface {
	LoadStyle(name string) (string, error)
	LoadScript(name string) (string, error)
}

// ValidateAssetName rejects empty names and names holding a separator, a
// dot or a NUL, so a name can only ever address one file in its directory.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\.\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
