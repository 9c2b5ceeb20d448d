package domain

// LanguageProfile describes how a language is compiled and run inside the
// sandbox image. Profiles are immutable and looked up by language identifier.
type LanguageProfile struct {
	Language   string
	SourceFile string
	ExecFile   string // equal to SourceFile for interpreted languages
	Image      string // must provide sh, timeout, base64 and a date supporting %N
	CompileCmd string // empty when the language is interpreted
	RunCmd     string
}

// Compiled reports whether the profile requires a compilation step.
func (p LanguageProfile) Compiled() bool {
	return p.CompileCmd != ""
}
