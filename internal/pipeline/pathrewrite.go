package pipeline

import (
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alnah/go-md2png/internal/fileutil"
)

// RewriteImagePaths converts relative <img src> paths in an HTML body fragment
// to absolute file:// URLs under sourceDir, so images next to a markdown file
// render from the temporary document's location.
// If sourceDir is empty, returns the fragment unchanged.
//
// Not rewritten: URLs, data URIs, anchors, absolute paths, and relative paths
// that escape sourceDir.
func RewriteImagePaths(fragment, sourceDir string) (string, error) {
	if sourceDir == "" || !strings.Contains(fragment, "<img") {
		return fragment, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}

	body := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Body,
		Data:     "body",
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	for _, n := range nodes {
		rewriteImages(n, absSourceDir)
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// rewriteImages walks the tree and rewrites img[src].
func rewriteImages(n *html.Node, sourceDir string) {
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		for i, attr := range n.Attr {
			if attr.Key != "src" || !isRelativePath(attr.Val) {
				continue
			}
			absPath := filepath.Join(sourceDir, filepath.FromSlash(attr.Val))
			if !isPathUnderDir(absPath, sourceDir) {
				continue
			}
			n.Attr[i].Val = fileutil.FileURL(absPath)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		rewriteImages(c, sourceDir)
	}
}

// isRelativePath returns true if the path should be rewritten.
func isRelativePath(path string) bool {
	if path == "" || strings.HasPrefix(path, "#") || strings.HasPrefix(path, "//") {
		return false
	}
	if i := strings.Index(path, ":"); i > 0 && !strings.ContainsAny(path[:i], "/\\.") {
		// scheme (http:, file:, data:) or a Windows drive letter
		return false
	}
	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}

// isPathUnderDir checks if absPath is under dir.
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}
	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
