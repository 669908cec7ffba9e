//go:build windows

package locator

import (
	"strings"

	"golang.org/x/sys/windows/registry"
)

// appPathKeys are the App Paths entries browsers register on install.
var appPathKeys = []string{
	`SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths\msedge.exe`,
	`SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths\chrome.exe`,
}

// registryPaths reads the default value of each App Paths key, machine-wide
// entries before per-user ones.
func registryPaths() []string {
	var out []string
	for _, root := range []registry.Key{registry.LOCAL_MACHINE, registry.CURRENT_USER} {
		for _, key := range appPathKeys {
			k, err := registry.OpenKey(root, key, registry.QUERY_VALUE)
			if err != nil {
				continue
			}
			val, typ, err := k.GetStringValue("")
			_ = k.Close()
			if err != nil {
				continue
			}
			if typ == registry.EXPAND_SZ {
				if expanded, err := registry.ExpandString(val); err == nil {
					val = expanded
				}
			}
			if val = strings.Trim(val, `"`); val != "" {
				out = append(out, val)
			}
		}
	}
	return out
}
