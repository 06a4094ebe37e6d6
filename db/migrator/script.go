package migrator

import (
	"cmp"
	"fmt"
	"regexp"
	"strings"
)

// Direction is the direction a script changes the schema in.
type Direction int

// Valid directions.
const (
	Migrate Direction = iota + 1
	Rollback
)

func (d Direction) String() string {
	switch d {
	case Migrate:
		return "migrate"
	case Rollback:
		return "rollback"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// DirectionFromString returns the Direction for the string s.
func DirectionFromString(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "migrate":
		return Migrate, nil
	case "rollback":
		return Rollback, nil
	default:
		return 0, fmt.Errorf("invalid direction '%s'", s)
	}
}

// progress returns the message reported when a script starts running.
func (d Direction) progress(label string) string {
	if d == Rollback {
		return fmt.Sprintf("Rolling back `%s`...", label)
	}
	return fmt.Sprintf("Migrating to `%s`...", label)
}

var scriptNameRx = regexp.MustCompile(`^(migrate|rollback)-([0-9]+)(?:-([a-z-]+))?\.sql$`)

// Script is a single SQL change script discovered in the migrations directory.
type Script struct {
	Direction Direction
	Version   string
	Name      string
	Path      string
}

// Label returns the human friendly identifier of the script.
func (s *Script) Label() string {
	if s.Name == "" {
		return s.Version
	}
	return s.Version + "-" + s.Name
}

// parseScriptName parses a script file name. It returns false if the name
// doesn't follow the script naming convention.
func parseScriptName(fileName string) (dir Direction, version, name string, ok bool) {
	match := scriptNameRx.FindStringSubmatch(fileName)
	if match == nil {
		return 0, "", "", false
	}

	dir, err := DirectionFromString(match[1])
	if err != nil {
		return 0, "", "", false
	}

	return dir, match[2], match[3], true
}

// CompareVersions compares two versions. Versions made up only of digits are
// compared by numeric value, regardless of their length or leading zeros.
// Any other versions are compared lexicographically.
func CompareVersions(a, b string) int {
	if !isDigits(a) || !isDigits(b) {
		return strings.Compare(a, b)
	}

	a, b = trimZeros(a), trimZeros(b)
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}

	return strings.Compare(a, b)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// trimZeros strips the leading zeros of a numeric version, keeping at least
// one digit.
func trimZeros(s string) string {
	if t := strings.TrimLeft(s, "0"); t != "" {
		return t
	}
	return "0"
}

var validIdentRx = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// maxIdentLen is the maximum length of versions and ledger identifiers.
const maxIdentLen = 128

func validIdent(s string) bool {
	return len(s) <= maxIdentLen && validIdentRx.MatchString(s)
}

// ScriptFileName returns the file name of the script with the given direction,
// version and optional name. It fails if Scan wouldn't recognize the result.
func ScriptFileName(direction Direction, version, name string) (string, error) {
	fileName := direction.String() + "-" + version
	if name != "" {
		fileName += "-" + name
	}
	fileName += ".sql"

	if _, _, _, ok := parseScriptName(fileName); !ok {
		return "", fmt.Errorf("invalid script file name '%s': the version must be numeric, "+
			"and the name may only contain lowercase letters and hyphens", fileName)
	}

	return fileName, nil
}
