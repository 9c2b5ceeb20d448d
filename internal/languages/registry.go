package languages

import (
	"sort"

	"gitlab.com/judgecore-2026.net/internal/domain"
	"gitlab.com/judgecore-2026.net/internal/static/errs"
)

// profiles maps a language identifier to its sandbox execution profile.
// Commands are relative to the sandbox working directory.
var profiles = map[string]domain.LanguageProfile{
	"python": {
		Language:   "python",
		SourceFile: "main.py",
		ExecFile:   "main.py",
		Image:      "judgecore/python:3.12",
		RunCmd:     "python3 main.py",
	},
	"javascript": {
		Language:   "javascript",
		SourceFile: "main.js",
		ExecFile:   "main.js",
		Image:      "judgecore/node:22",
		RunCmd:     "node main.js",
	},
	"go": {
		Language:   "go",
		SourceFile: "main.go",
		ExecFile:   "main",
		Image:      "judgecore/golang:1.23",
		CompileCmd: "go build -o main main.go",
		RunCmd:     "./main",
	},
	"c": {
		Language:   "c",
		SourceFile: "main.c",
		ExecFile:   "main",
		Image:      "judgecore/gcc:13",
		CompileCmd: "gcc main.c -O2 -o main",
		RunCmd:     "./main",
	},
	"cpp": {
		Language:   "cpp",
		SourceFile: "main.cpp",
		ExecFile:   "main",
		Image:      "judgecore/gcc:13",
		CompileCmd: "g++ main.cpp -O2 -o main",
		RunCmd:     "./main",
	},
	"java": {
		Language:   "java",
		SourceFile: "Main.java",
		ExecFile:   "Main.class",
		Image:      "judgecore/openjdk:21",
		CompileCmd: "javac Main.java",
		RunCmd:     "java -Xss64m Main",
	},
}

// Resolve looks up the profile for a language identifier.
func Resolve(language string) (domain.LanguageProfile, error) {
	profile, ok := profiles[language]
	if !ok {
		return domain.LanguageProfile{}, errs.UnsupportedLanguage
	}
	return profile, nil
}

// Identifiers returns the registered language identifiers, sorted.
func Identifiers() []string {
	ids := make([]string, 0, len(profiles))
	for id := range profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
