/*
 * jcfs: versioned virtual file system engine
 * Copyright © 2026 The jcfs Authors
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program. If not, see <https://www.gnu.org/licenses/>.
 */

package jcfs

import (
	"path/filepath"
	"strings"

	"github.com/jcfvcs/jcfs/internal/model"
)

// DefaultTextExtensions is the fixed allow-list used to classify a
// path as text when the repository isn't configured with its own.
// Extensions not on this list (including ".svg", which is text in
// some toolchains and binary in others) are classified binary.
var DefaultTextExtensions = []string{
	".txt", ".md", ".markdown", ".json", ".yaml", ".yml", ".toml",
	".go", ".py", ".js", ".ts", ".jsx", ".tsx", ".rs", ".c", ".h",
	".cpp", ".hpp", ".java", ".rb", ".sh", ".css", ".html", ".xml",
	".csv", ".sql", ".proto", ".cfg", ".ini", ".env", ".gitignore",
}

func classifier(extensions []string) func(string) model.FileKind {
	set := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		set[strings.ToLower(e)] = true
	}

	return func(path string) model.FileKind {
		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			ext = strings.ToLower(filepath.Base(path))
		}
		if set[ext] {
			return model.KindText
		}
		return model.KindBinary
	}
}
