package locator

import "path"

// wellKnownPaths lists default install locations per platform, Edge first on
// Windows where it ships with the OS.
func wellKnownPaths(goos string) []string {
	switch goos {
	case "windows":
		return []string{
			`C:\Program Files (x86)\Microsoft\Edge\Application\msedge.exe`,
			`C:\Program Files\Microsoft\Edge\Application\msedge.exe`,
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	case "darwin":
		return []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
		}
	default:
		return []string{
			"/usr/bin/google-chrome-stable",
			"/usr/bin/google-chrome",
			"/usr/bin/microsoft-edge",
			"/usr/bin/chromium",
			"/usr/bin/chromium-browser",
			"/snap/bin/chromium",
		}
	}
}

// profilePaths lists per-user install locations derived from the environment.
// Paths are joined with the target platform's separator, not the host's.
func profilePaths(goos string, getenv func(string) string) []string {
	switch goos {
	case "windows":
		local := getenv("LOCALAPPDATA")
		if local == "" {
			return nil
		}
		return []string{
			local + `\Microsoft\Edge\Application\msedge.exe`,
			local + `\Google\Chrome\Application\chrome.exe`,
		}
	case "darwin":
		home := getenv("HOME")
		if home == "" {
			return nil
		}
		return []string{
			path.Join(home, "Applications/Google Chrome.app/Contents/MacOS/Google Chrome"),
			path.Join(home, "Applications/Microsoft Edge.app/Contents/MacOS/Microsoft Edge"),
		}
	default:
		home := getenv("HOME")
		if home == "" {
			return nil
		}
		return []string{
			path.Join(home, ".local/bin/google-chrome"),
			path.Join(home, ".local/bin/chromium"),
		}
	}
}
