package assets

import "errors"

// AssetResolver looks assets up in a custom directory first and falls back
// to the embedded copies when the directory lacks them.
type AssetResolver struct {
	custom   AssetLoader // nil without a custom base path
	embedded AssetLoader
}

// NewAssetResolver returns a resolver over customBasePath and the embedded
// assets. An empty customBasePath uses embedded assets only.
func NewAssetResolver(customBasePath string) (*AssetResolver, error) {
	r := &AssetResolver{embedded: NewEmbeddedLoader()}
	if customBasePath == "" {
		return r, nil
	}

	fsLoader, err := NewFilesystemLoader(customBasePath)
	if err != nil {
		return nil, err
	}
	r.custom = fsLoader
	return r, nil
}

// LoadStyle returns the named stylesheet.
func (r *AssetResolver) LoadStyle(name string) (string, error) {
	return r.load(func(l AssetLoader) (string, error) { return l.LoadStyle(name) })
}

// LoadScript returns the named script.
func (r *AssetResolver) LoadScript(name string) (string, error) {
	return r.load(func(l AssetLoader) (string, error) { return l.LoadScript(name) })
}

// load falls through to the embedded loader on "not found" only; invalid
// names and read errors from the custom directory are returned as is.
func (r *AssetResolver) load(fn func(AssetLoader) (string, error)) (string, error) {
	if r.custom != nil {
		content, err := fn(r.custom)
		if err == nil || !isNotFound(err) {
			return content, err
		}
	}
	return fn(r.embedded)
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrStyleNotFound) || errors.Is(err, ErrScriptNotFound)
}

// HasCustomLoader reports whether a custom directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// HasTypesetter reports whether the math typesetter bundle can be loaded.
func (r *AssetResolver) HasTypesetter() bool {
	_, err := r.LoadScript(TypesetterName)
	return err == nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
