package scanner

import (
	"path/filepath"
	"regexp"
	"strings"
)

// importPatterns maps file extensions to the regular expressions used to pull
// import-like targets out of source text. Capture group 1 is the target.
var importPatterns = map[string][]*regexp.Regexp{
	// JavaScript / TypeScript family: ES imports, re-exports, CommonJS
	// require and dynamic import().
	".js":  jsPatterns,
	".jsx": jsPatterns,
	".mjs": jsPatterns,
	".cjs": jsPatterns,
	".ts":  jsPatterns,
	".tsx": jsPatterns,

	".py": {
		regexp.MustCompile(`(?m)^\s*from\s+([.\w/]+)\s+import\b`),
		regexp.MustCompile(`(?m)^\s*import\s+([.\w/]+)`),
	},

	".java": {
		regexp.MustCompile(`(?m)^\s*import\s+(?:static\s+)?([\w.]+)\s*;`),
	},
}

var jsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`import\s+(?:[\w{}\s,*$]+\s+from\s+)?['"]([^'"]+)['"]`),
	regexp.MustCompile(`export\s+(?:[\w{}\s,*$]+\s+)?from\s+['"]([^'"]+)['"]`),
	regexp.MustCompile(`require\s*\(\s*['"]([^'"]+)['"]\s*\)`),
	regexp.MustCompile(`import\s*\(\s*['"]([^'"]+)['"]\s*\)`),
}

// projectMarkers identify a subdirectory that is itself a project root,
// used by the second fallback tier.
var projectMarkers = []string{
	"package.json",
	"go.mod",
	"requirements.txt",
	"pyproject.toml",
	"pom.xml",
	"build.gradle",
	"Cargo.toml",
	"src",
}

// excludedDirs is the fixed traversal denylist.
var excludedDirs = map[string]bool{
	"node_modules": true,
	"dist":         true,
	"build":        true,
}

// skipEntry reports whether a directory entry name is excluded from
// traversal. Hidden entries are skipped except .gitignore, which the
// original dataset keeps as a plain file node.
func skipEntry(name string, isDir bool) bool {
	if strings.HasPrefix(name, ".") {
		return name != ".gitignore" || isDir
	}
	if isDir && excludedDirs[name] {
		return true
	}
	return false
}

// supportedExtension reports whether import extraction is attempted for the
// given path. Unsupported files still become graph nodes, just without edges.
func supportedExtension(path string) bool {
	_, ok := importPatterns[strings.ToLower(filepath.Ext(path))]
	return ok
}

// isLocalTarget reports whether an extracted import target refers to a file
// within the repository rather than an external package. Targets are kept
// verbatim and never resolved against the filesystem.
func isLocalTarget(target string) bool {
	if target == "" {
		return false
	}
	if strings.HasPrefix(target, ".") || strings.HasPrefix(target, "/") {
		return true
	}
	return strings.Contains(target, "/") && !looksLikePackage(target)
}

// looksLikePackage filters path-bearing names that are clearly external:
// scoped npm packages (@scope/name) and module paths with a dotted first
// segment (github.com/..., golang.org/...).
func looksLikePackage(target string) bool {
	if strings.HasPrefix(target, "@") {
		return true
	}
	first := target
	if i := strings.Index(target, "/"); i >= 0 {
		first = target[:i]
	}
	return strings.Contains(first, ".")
}

// extractTargets runs the per-language patterns over content and returns the
// local import targets in order of first appearance.
func extractTargets(path string, content []byte) []string {
	patterns, ok := importPatterns[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil
	}

	var targets []string
	seen := make(map[string]bool)
	for _, re := range patterns {
		for _, m := range re.FindAllSubmatch(content, -1) {
			target := string(m[1])
			if !isLocalTarget(target) || seen[target] {
				continue
			}
			seen[target] = true
			targets = append(targets, target)
		}
	}
	return targets
}
