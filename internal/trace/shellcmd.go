package trace

import (
	"path"
	"strings"
)

// interpreters are launchers that take a script path as their first
// non-flag argument.
var interpreters = map[string]bool{
	"python": true, "python3": true, "python2": true,
	"bash": true, "sh": true, "zsh": true,
	"Rscript": true, "julia": true, "perl": true, "ruby": true, "node": true,
}

// launchers wrap another command; flags listed in launcherArgFlags take a
// value that must be skipped too.
var launchers = map[string]bool{
	"mpirun": true, "mpiexec": true, "srun": true, "time": true, "env": true, "nice": true,
}

var launcherArgFlags = map[string]bool{
	"-n": true, "-np": true, "-c": true, "--ntasks": true, "-N": true,
}

var scriptExts = map[string]bool{
	".py": true, ".sh": true, ".R": true, ".r": true, ".jl": true, ".pl": true, ".rb": true, ".js": true, ".mjs": true,
}

// ScriptFromShellCmd returns the script a shell command runs, e.g.
// "scripts/run.py" for `mpirun -n 4 python3 -u scripts/run.py in.json`.
//
// This is a heuristic over whitespace-separated tokens, not a shell parser.
// Only the first command of a pipeline or list is looked at, and commands
// that do not start with a known interpreter or a file with a script
// extension yield "".
func ScriptFromShellCmd(cmd string) string {
	tokens := tokenize(cmd)

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		base := path.Base(tok)
		switch {
		case isAssignment(tok):
			i++
		case launchers[base]:
			i++
			for i < len(tokens) && strings.HasPrefix(tokens[i], "-") {
				if launcherArgFlags[tokens[i]] {
					i++
				}
				i++
			}
		case interpreters[base] || strings.HasPrefix(base, "python3."):
			i++
			for i < len(tokens) && strings.HasPrefix(tokens[i], "-") {
				// python -m module runs no script file.
				if tokens[i] == "-m" || tokens[i] == "-c" {
					return ""
				}
				i++
			}
			if i < len(tokens) && !isControl(tokens[i]) {
				return tokens[i]
			}
			return ""
		case scriptExts[path.Ext(base)]:
			return tok
		default:
			return ""
		}
	}
	return ""
}

func tokenize(cmd string) []string {
	var tokens []string
	for _, f := range strings.Fields(cmd) {
		f = strings.Trim(f, `"'`)
		if f == "" {
			continue
		}
		if isControl(f) {
			break
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isAssignment(tok string) bool {
	eq := strings.IndexByte(tok, '=')
	return eq > 0 && !strings.ContainsAny(tok[:eq], "/-.")
}

func isControl(tok string) bool {
	switch tok {
	case "|", "||", "&&", ";", ">", ">>", "<", "2>", "&":
		return true
	}
	return false
}
