// Package assets provides the stylesheet and typesetting script embedded in
// every rendered document.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - custom first, embedded as fallback
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css     # e.g. mobile.css
//	└── scripts/
//	    └── {name}.js      # e.g. mathjax.js
//
// The MathJax bundle is not committed. Run `go generate ./internal/assets`
// to vendor it into scripts/ before building, or drop a mathjax.js into the
// scripts/ directory of a custom asset path. Without it math is left as raw
// TeX and the page signals completion as soon as it has loaded.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets

//go:generate sh ../../scripts/fetch-mathjax.sh scripts/mathjax.js
