//go:build !windows

package locator

// registryPaths returns nothing: only Windows has an App Paths registry.
func registryPaths() []string { return nil }
